package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/feedback/internal/adapters/source"
	"github.com/okian/feedback/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func serve(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestHTTPSourceLoad(t *testing.T) {
	Convey("Given a feed endpoint", t, func() {
		ctx := context.Background()

		Convey("When it returns a JSON array", func() {
			srv := serve(http.StatusOK, `[
				{"id":"1","fullName":"John Doe","department":"Engineering","createdAt":"2023-01-15"},
				{"id":"2","fullName":"Jane Smith","department":"Marketing","createdAt":"2023-02-20","teamCollab":5}
			]`)
			defer srv.Close()

			got, err := source.NewHTTPSource(srv.URL).Load(ctx)

			Convey("Then every record should be decoded in order", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].FullName, ShouldEqual, "John Doe")
				So(got[1].Rating(model.TeamCollab), ShouldEqual, "5")
			})
		})

		Convey("When it returns an empty array", func() {
			srv := serve(http.StatusOK, `[]`)
			defer srv.Close()

			got, err := source.NewHTTPSource(srv.URL).Load(ctx)

			Convey("Then the result should be empty without error", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When it returns a non-2xx status", func() {
			srv := serve(http.StatusServiceUnavailable, `down`)
			defer srv.Close()

			got, err := source.NewHTTPSource(srv.URL).Load(ctx)

			Convey("Then a status fetch error should be returned", func() {
				So(got, ShouldBeNil)
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
				var fe *source.FetchError
				So(errors.As(err, &fe), ShouldBeTrue)
				So(fe.Kind, ShouldEqual, source.KindStatus)
				So(fe.Status, ShouldEqual, http.StatusServiceUnavailable)
				So(err.Error(), ShouldContainSubstring, "503")
			})
		})

		Convey("When the body is not an array", func() {
			for _, body := range []string{`{"id":"1"}`, `null`, `[{"id":`} {
				srv := serve(http.StatusOK, body)
				_, err := source.NewHTTPSource(srv.URL).Load(ctx)
				srv.Close()

				var fe *source.FetchError
				So(errors.As(err, &fe), ShouldBeTrue)
				So(fe.Kind, ShouldEqual, source.KindDecode)
			}
		})

		Convey("When the endpoint is unreachable", func() {
			srv := serve(http.StatusOK, `[]`)
			url := srv.URL
			srv.Close()

			_, err := source.NewHTTPSource(url, source.WithTimeout(time.Second)).Load(ctx)

			Convey("Then a transport fetch error should be returned", func() {
				var fe *source.FetchError
				So(errors.As(err, &fe), ShouldBeTrue)
				So(fe.Kind, ShouldEqual, source.KindTransport)
				So(fe.URL, ShouldEqual, url)
			})
		})

		Convey("When the context is already cancelled", func() {
			srv := serve(http.StatusOK, `[]`)
			defer srv.Close()
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := source.NewHTTPSource(srv.URL).Load(cctx)

			Convey("Then the cause should be the context error", func() {
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When the request must carry an Accept header", func() {
			var accept string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				accept = r.Header.Get("Accept")
				_, _ = w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			src := source.NewHTTPSource(srv.URL, source.WithHTTPClient(srv.Client()))
			_, err := src.Load(ctx)

			Convey("Then it should ask for JSON", func() {
				So(err, ShouldBeNil)
				So(accept, ShouldEqual, "application/json")
				So(src.URL(), ShouldEqual, srv.URL)
			})
		})
	})
}
