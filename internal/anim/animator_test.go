package anim_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/losscape/internal/anim"
	"github.com/san-kum/losscape/internal/field"
)

var _ = Describe("Animator", func() {
	var (
		a    *anim.Animator
		path []field.Param
	)

	BeforeEach(func() {
		a = anim.New()
		path = []field.Param{{U: 0, V: 0}, {U: 1, V: 2}, {U: 2, V: 4}}
	})

	Context("without a path", func() {
		It("starts at the origin", func() {
			Expect(a.Current()).To(Equal(field.Param{}))
			Expect(a.HasPath()).To(BeFalse())
		})

		It("treats Tick as a no-op", func() {
			Expect(a.Tick()).To(Equal(anim.Idle))
			Expect(a.Index()).To(Equal(0))
		})

		It("refuses to pause or resume", func() {
			Expect(a.Pause()).To(MatchError(anim.ErrNoPath))
			Expect(a.Resume()).To(MatchError(anim.ErrNoPath))
		})

		It("rejects an empty path", func() {
			Expect(a.SetPath(nil)).To(MatchError(anim.ErrEmptyPath))
		})
	})

	Context("with a three-point path", func() {
		BeforeEach(func() {
			Expect(a.SetPath(path)).To(Succeed())
		})

		It("selects the first point and runs", func() {
			Expect(a.Current()).To(Equal(path[0]))
			Expect(a.Index()).To(Equal(0))
			Expect(a.Running()).To(BeTrue())
		})

		It("visits indices 1 and 2, then reports exhaustion", func() {
			Expect(a.Tick()).To(Equal(anim.Advanced))
			Expect(a.Index()).To(Equal(1))
			Expect(a.Current()).To(Equal(field.Param{U: 1, V: 2}))

			Expect(a.Tick()).To(Equal(anim.Advanced))
			Expect(a.Index()).To(Equal(2))

			Expect(a.Tick()).To(Equal(anim.Exhausted))
			Expect(a.Index()).To(Equal(2))
			Expect(a.Current()).To(Equal(field.Param{U: 2, V: 4}))
			Expect(a.Running()).To(BeFalse())

			Expect(a.Tick()).To(Equal(anim.Exhausted))
		})

		It("restores the first point on ResetToStart", func() {
			for i := 0; i < 3; i++ {
				a.Tick()
			}
			a.ResetToStart()
			Expect(a.Current()).To(Equal(field.Param{U: 0, V: 0}))
			Expect(a.Index()).To(Equal(0))
			Expect(a.Exhausted()).To(BeFalse())
			Expect(a.Len()).To(Equal(3))
			Expect(a.Paused()).To(BeTrue())

			Expect(a.Resume()).To(Succeed())
			Expect(a.Tick()).To(Equal(anim.Advanced))
		})

		It("keeps the cursor while paused", func() {
			a.Tick()
			Expect(a.Pause()).To(Succeed())
			Expect(a.Tick()).To(Equal(anim.Paused))
			Expect(a.Index()).To(Equal(1))

			Expect(a.Resume()).To(Succeed())
			Expect(a.Tick()).To(Equal(anim.Advanced))
			Expect(a.Index()).To(Equal(2))
		})

		It("copies the path", func() {
			path[1] = field.Param{U: 99, V: 99}
			a.Tick()
			Expect(a.Current()).To(Equal(field.Param{U: 1, V: 2}))
		})

		It("becomes idle after Clear", func() {
			a.Tick()
			a.Clear()
			Expect(a.Tick()).To(Equal(anim.Idle))
			Expect(a.Current()).To(Equal(field.Param{}))
		})

		It("restarts when a new path is loaded mid-run", func() {
			a.Tick()
			Expect(a.Pause()).To(Succeed())
			Expect(a.SetPath([]field.Param{{U: 5, V: 5}})).To(Succeed())
			Expect(a.Current()).To(Equal(field.Param{U: 5, V: 5}))
			Expect(a.Paused()).To(BeFalse())
			Expect(a.Tick()).To(Equal(anim.Exhausted))
		})
	})

	Describe("period", func() {
		It("defaults to 60ms", func() {
			Expect(a.Period()).To(Equal(60 * time.Millisecond))
		})

		It("rejects non-positive values", func() {
			Expect(a.SetPeriod(0)).To(MatchError(anim.ErrBadPeriod))
			Expect(a.SetPeriod(20 * time.Millisecond)).To(Succeed())
			Expect(a.Period()).To(Equal(20 * time.Millisecond))
		})
	})
})
