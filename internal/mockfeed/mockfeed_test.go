package mockfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/okian/feedback/internal/adapters/source"
	"github.com/okian/feedback/internal/domain/model"
	"github.com/okian/feedback/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var refNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestGenerate(t *testing.T) {
	Convey("Given a seeded generator config", t, func() {
		cfg := &Config{Count: 500, Months: 18, Seed: 42, Now: refNow}
		ctx := context.Background()

		records, err := Generate(ctx, cfg)
		So(err, ShouldBeNil)

		Convey("Then it produces the requested number of records", func() {
			So(len(records), ShouldEqual, 500)
		})

		Convey("Then every record carries an id and a department", func() {
			for _, rec := range records {
				_, hasID := rec["id"]
				_, hasLegacyID := rec["_id"]
				So(hasID || hasLegacyID, ShouldBeTrue)
				So(rec["department"], ShouldBeIn, departments)
			}
		})

		Convey("Then parseable creation dates fall within the window", func() {
			earliest := refNow.AddDate(0, -18, 0)
			for _, rec := range records {
				var ts model.Timestamp
				raw, err := json.Marshal(rec["createdAt"])
				So(err, ShouldBeNil)
				So(json.Unmarshal(raw, &ts), ShouldBeNil)
				if tm, ok := ts.Time(time.UTC); ok {
					So(tm.Before(earliest.Add(-time.Second)), ShouldBeFalse)
					So(tm.After(refNow), ShouldBeFalse)
				}
			}
		})

		Convey("Then some optional fields are absent", func() {
			missingText, nested := 0, 0
			for _, rec := range records {
				if _, ok := rec[model.WentWell]; !ok {
					missingText++
				}
				if _, ok := rec["ratings"]; ok {
					nested++
				}
			}
			So(missingText, ShouldBeGreaterThan, 0)
			So(missingText, ShouldBeLessThan, len(records))
			So(nested, ShouldBeGreaterThan, 0)
		})

		Convey("Then the same seed reproduces the same shape", func() {
			again, err := Generate(ctx, cfg)
			So(err, ShouldBeNil)
			for i := range records {
				So(again[i]["department"], ShouldEqual, records[i]["department"])
				So(again[i]["createdAt"], ShouldEqual, records[i]["createdAt"])
				So(again[i]["id"], ShouldEqual, records[i]["id"])
				So(again[i]["_id"], ShouldEqual, records[i]["_id"])
			}
		})

		Convey("Then generated ids are valid and distinct", func() {
			seen := map[string]bool{}
			for _, rec := range records {
				raw, ok := rec["id"].(string)
				if !ok {
					raw, ok = rec["_id"].(string)
				}
				if !ok {
					continue
				}
				parsed, err := uuid.Parse(raw)
				So(err, ShouldBeNil)
				So(parsed.Version(), ShouldEqual, uuid.Version(4))
				So(seen[raw], ShouldBeFalse)
				seen[raw] = true
			}
			So(seen, ShouldNotBeEmpty)
		})
	})

	Convey("Given a negative count", t, func() {
		_, err := Generate(context.Background(), &Config{Count: -1})

		Convey("Then generation fails", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Generate(ctx, &Config{Count: 10})

		Convey("Then generation stops", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestServer(t *testing.T) {
	Convey("Given a feed server over generated records", t, func() {
		cfg := &Config{Count: 50, Seed: 7, Now: refNow, FailEvery: 3}
		records, err := Generate(context.Background(), cfg)
		So(err, ShouldBeNil)

		feed := NewServer(records, cfg)
		ts := httptest.NewServer(feed.Handler())
		defer ts.Close()

		src := source.NewHTTPSource(ts.URL + FeedPath)

		Convey("Then the dashboard source decodes every record", func() {
			got, err := src.Load(context.Background())
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 50)
			for _, r := range got {
				So(r.ID, ShouldNotBeEmpty)
				So(r.Department, ShouldNotBeEmpty)
			}
		})

		Convey("Then every third request fails with 503", func() {
			_, err1 := src.Load(context.Background())
			_, err2 := src.Load(context.Background())
			_, err3 := src.Load(context.Background())
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(err3, ShouldNotBeNil)

			stats := feed.Stats()
			So(stats.Served, ShouldEqual, 2)
			So(stats.Failed, ShouldEqual, 1)
		})

		Convey("Then other methods are not found", func() {
			resp, err := http.Post(ts.URL+FeedPath, "application/json", nil)
			So(err, ShouldBeNil)
			_ = resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestWriteFile(t *testing.T) {
	Convey("Given generated records and a target path", t, func() {
		records, err := Generate(context.Background(), &Config{Count: 5, Seed: 1, Now: refNow})
		So(err, ShouldBeNil)
		path := filepath.Join(t.TempDir(), "nested", "responses.json")

		Convey("When writing them", func() {
			name, err := WriteFile(context.Background(), path, records)
			So(err, ShouldBeNil)

			Convey("Then the file holds a decodable response array", func() {
				So(name, ShouldEqual, path)
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				var got []model.Response
				So(json.Unmarshal(data, &got), ShouldBeNil)
				So(len(got), ShouldEqual, 5)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a file-only run", t, func() {
		path := filepath.Join(t.TempDir(), "out.json")
		err := Run(context.Background(), &Config{Count: 3, Seed: 9, OutputFile: path})

		Convey("Then the responses are written and Run returns", func() {
			So(err, ShouldBeNil)
			_, statErr := os.Stat(path)
			So(statErr, ShouldBeNil)
		})
	})

	Convey("Given a serving run", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		Convey("Then it returns cleanly when the context ends", func() {
			So(Run(ctx, &Config{Addr: "127.0.0.1:0", Count: 3, Seed: 9}), ShouldBeNil)
		})
	})
}
