package fetcher

import (
	"context"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func intPage(start, count int) []int {
	page := make([]int, count)
	for i := range page {
		page[i] = start + i
	}
	return page
}

func TestPagination(t *testing.T) {
	Convey("Pagination", t, func() {
		ctx := context.Background()

		Convey("First replaces, More appends and advances by actual count", func() {
			pages := [][]int{intPage(0, 20), intPage(20, 7), nil}
			var offsets []int
			f := New(20, func(_ context.Context, offset, limit int) ([]int, error) {
				offsets = append(offsets, offset)
				page := pages[0]
				pages = pages[1:]
				return page, nil
			})

			first, err := f.First(ctx)
			So(err, ShouldBeNil)
			So(first, ShouldHaveLength, 20)

			// Short page: the cursor advances by 7, not by the page size.
			more, err := f.More(ctx)
			So(err, ShouldBeNil)
			So(more, ShouldHaveLength, 7)
			So(f.Len(), ShouldEqual, 27)

			_, err = f.More(ctx)
			So(err, ShouldBeNil)
			So(f.Exhausted(), ShouldBeTrue)
			So(offsets, ShouldResemble, []int{0, 20, 27})
		})

		Convey("A zero-item page stops further requests until First resets", func() {
			var calls atomic.Int32
			empty := false
			f := New(20, func(_ context.Context, offset, _ int) ([]int, error) {
				calls.Add(1)
				if empty {
					return nil, nil
				}
				empty = true
				return intPage(offset, 20), nil
			})

			_, _ = f.First(ctx)
			_, _ = f.More(ctx) // zero items, marks exhausted
			So(f.Len(), ShouldEqual, 20)

			_, err := f.More(ctx)
			So(err, ShouldBeNil)
			So(calls.Load(), ShouldEqual, 2)

			empty = false
			_, err = f.First(ctx)
			So(err, ShouldBeNil)
			So(calls.Load(), ShouldEqual, 3)
		})
	})
}

func TestSingleFlight(t *testing.T) {
	Convey("Single-flight guard", t, func() {
		ctx := context.Background()

		Convey("Rapid More calls issue one request per in-flight window", func() {
			var calls atomic.Int32
			started := make(chan struct{})
			release := make(chan struct{})
			f := New(20, func(_ context.Context, offset, _ int) ([]int, error) {
				calls.Add(1)
				close(started)
				<-release
				return intPage(offset, 20), nil
			})

			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = f.More(ctx)
			}()

			// While the first fetch is blocked, every further More is a no-op.
			<-started
			for i := 0; i < 10; i++ {
				page, err := f.More(ctx)
				So(err, ShouldBeNil)
				So(page, ShouldBeNil)
			}

			close(release)
			<-done

			So(calls.Load(), ShouldEqual, 1)
			So(f.Len(), ShouldEqual, 20)
		})

		Convey("First while a fetch is in flight reports ErrInFlight", func() {
			release := make(chan struct{})
			started := make(chan struct{})
			f := New(20, func(_ context.Context, offset, _ int) ([]int, error) {
				close(started)
				<-release
				return intPage(offset, 20), nil
			})

			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = f.First(ctx)
			}()

			<-started
			_, err := f.First(ctx)
			So(err, ShouldEqual, ErrInFlight)

			close(release)
			<-done
		})
	})
}

func TestPatch(t *testing.T) {
	Convey("Patch", t, func() {
		ctx := context.Background()
		f := New(20, func(_ context.Context, offset, _ int) ([]int, error) {
			return intPage(offset, 3), nil
		})
		_, _ = f.First(ctx)

		Convey("Replaces the first matching item in place", func() {
			ok := f.Patch(
				func(v int) bool { return v == 1 },
				func(v int) int { return 100 },
			)
			So(ok, ShouldBeTrue)
			So(f.Items(), ShouldResemble, []int{0, 100, 2})
		})

		Convey("Reports false when nothing matches", func() {
			ok := f.Patch(
				func(v int) bool { return v == 42 },
				func(v int) int { return 0 },
			)
			So(ok, ShouldBeFalse)
		})
	})
}
