package filter_test

import (
	"testing"
	"time"

	"github.com/okian/feedback/internal/domain/filter"
	"github.com/okian/feedback/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func response(id, name, dept, createdAt string) model.Response {
	return model.NewResponse(id, name, dept, model.NewTimestamp(createdAt), nil, nil)
}

func ids(records []model.Response) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func sample() []model.Response {
	return []model.Response{
		response("1", "John Doe", "Engineering", "2023-01-15"),
		response("2", "Jane Smith", "Marketing", "2023-02-20"),
		response("3", "Mike Johnson", "Sales", "2023-01-10"),
		response("4", "", "Engineering", "2023-01-05"),
		response("5", "Amy Garcia", "Engineering", "bogus"),
		response("6", "JOHNNY Cash", "engineering", "2023-02-01"),
	}
}

func TestApply(t *testing.T) {
	Convey("Given a record set", t, func() {
		records := sample()

		Convey("When no criteria are active", func() {
			got := filter.Apply(records, filter.Default(), time.UTC)

			Convey("Then the record set should be returned unchanged", func() {
				So(got, ShouldResemble, records)
			})
		})

		Convey("When the zero criteria are used", func() {
			got := filter.Apply(records, filter.Criteria{}, time.UTC)

			Convey("Then blank selections should behave as all", func() {
				So(ids(got), ShouldResemble, ids(records))
			})
		})

		Convey("When searching by a lower-case name fragment", func() {
			got := filter.Apply(records, filter.Criteria{SearchText: "john", Department: filter.All, Month: filter.All}, time.UTC)

			Convey("Then matching should be case-insensitive and order-preserving", func() {
				So(ids(got), ShouldResemble, []string{"1", "3", "6"})
			})
		})

		Convey("When the search text is upper case", func() {
			got := filter.Apply(records, filter.Criteria{SearchText: "DOE", Department: filter.All, Month: filter.All}, time.UTC)

			Convey("Then it should still match", func() {
				So(ids(got), ShouldResemble, []string{"1"})
			})
		})

		Convey("When filtering by department", func() {
			got := filter.Apply(records, filter.Criteria{Department: "Engineering", Month: filter.All}, time.UTC)

			Convey("Then equality should be exact and case-sensitive", func() {
				So(ids(got), ShouldResemble, []string{"1", "4", "5"})
			})
		})

		Convey("When filtering by month", func() {
			got := filter.Apply(records, filter.Criteria{Department: filter.All, Month: "January 2023"}, time.UTC)

			Convey("Then only records in that month should match", func() {
				So(ids(got), ShouldResemble, []string{"1", "3", "4"})
			})
		})

		Convey("When filtering by the invalid-date bucket", func() {
			got := filter.Apply(records, filter.Criteria{Department: filter.All, Month: model.InvalidDate}, time.UTC)

			Convey("Then records with bad timestamps should match", func() {
				So(ids(got), ShouldResemble, []string{"5"})
			})
		})

		Convey("When combining all three predicates", func() {
			c := filter.Criteria{SearchText: "o", Department: "Engineering", Month: "January 2023"}
			got := filter.Apply(records, c, time.UTC)

			Convey("Then every predicate must hold", func() {
				So(ids(got), ShouldResemble, []string{"1"})
			})
		})

		Convey("When the input is filtered", func() {
			before := ids(records)
			_ = filter.Apply(records, filter.Criteria{SearchText: "jane"}, time.UTC)

			Convey("Then it should not be modified", func() {
				So(ids(records), ShouldResemble, before)
			})
		})
	})

	Convey("Given one Engineering and one Marketing record", t, func() {
		records := []model.Response{
			response("e", "Eve", "Engineering", "2023-01-15"),
			response("m", "Max", "Marketing", "2023-01-16"),
		}

		Convey("Then a Marketing filter should return only the Marketing record", func() {
			got := filter.Apply(records, filter.Criteria{SearchText: "", Department: "Marketing", Month: filter.All}, time.UTC)
			So(ids(got), ShouldResemble, []string{"m"})
		})
	})

	Convey("Given an empty record set", t, func() {
		Convey("Then any criteria should yield an empty result", func() {
			So(filter.Apply(nil, filter.Criteria{SearchText: "x", Department: "HR", Month: "May 2023"}, time.UTC), ShouldBeEmpty)
			So(filter.Apply([]model.Response{}, filter.Default(), time.UTC), ShouldBeEmpty)
		})
	})
}

func TestApplyIsSubsequence(t *testing.T) {
	Convey("Given every combination of sample criteria", t, func() {
		records := sample()
		searches := []string{"", "j", "smith", "zzz"}
		departments := []string{filter.All, "Engineering", "Marketing", "Nope"}
		months := []string{filter.All, "January 2023", "February 2023", model.InvalidDate}

		Convey("Then each result should be an order-preserving subsequence", func() {
			for _, q := range searches {
				for _, d := range departments {
					for _, m := range months {
						got := filter.Apply(records, filter.Criteria{SearchText: q, Department: d, Month: m}, time.UTC)
						next := 0
						for _, g := range got {
							for next < len(records) && records[next].ID != g.ID {
								next++
							}
							So(next, ShouldBeLessThan, len(records))
							next++
						}
					}
				}
			}
		})
	})
}

func TestMatch(t *testing.T) {
	Convey("Given a record without a name", t, func() {
		r := response("x", "", "HR", "2023-01-01")

		Convey("Then it should never match a non-empty search", func() {
			So(filter.Match(&r, filter.Criteria{SearchText: "a"}, time.UTC), ShouldBeFalse)
			So(filter.Match(&r, filter.Criteria{}, time.UTC), ShouldBeTrue)
		})
	})

	Convey("Given criteria helpers", t, func() {
		So(filter.Default().IsDefault(), ShouldBeTrue)
		So(filter.Criteria{}.IsDefault(), ShouldBeTrue)
		So(filter.Criteria{Department: "HR"}.IsDefault(), ShouldBeFalse)
		So(filter.Criteria{}.Normalize(), ShouldResemble, filter.Default())
	})
}
