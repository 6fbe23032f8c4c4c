package simulate_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/momentum/internal/adapters/http/api"
	service "github.com/okian/momentum/internal/app"
	"github.com/okian/momentum/internal/simulate"
	"github.com/okian/momentum/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	Convey("Given a running momentum service", t, func() {
		So(logger.Init(), ShouldBeNil)

		svc := service.New(service.WithWorkerCount(2), service.WithCacheSize(8))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(mux)
		server := httptest.NewServer(mux)
		defer server.Close()

		output := filepath.Join(t.TempDir(), "out", "matches.json")
		cfg := &simulate.Config{
			BaseURL:    server.URL,
			NumMatches: 12,
			Workers:    4,
			Timeout:    5 * time.Second,
			Seed:       11,
			OutputFile: output,
			Verbose:    true,
		}

		Convey("When a simulation runs against it", func() {
			stats, err := simulate.Run(context.Background(), cfg)

			Convey("Then every match is registered and verified", func() {
				So(err, ShouldBeNil)
				So(stats.MatchesGenerated, ShouldEqual, 12)
				So(stats.MatchesRegistered, ShouldEqual, 12)
				So(stats.MatchesVerified, ShouldEqual, 12)
				So(stats.MatchesFailed, ShouldEqual, 0)
				So(stats.GamesVerified, ShouldBeGreaterThanOrEqualTo, 12*12)
			})

			Convey("Then the generated matches are saved", func() {
				_, statErr := os.Stat(output)
				So(statErr, ShouldBeNil)
			})

			Convey("Then the catalog holds the matches", func() {
				list, err := svc.ListMatches(context.Background())
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 12)
			})
		})

		Convey("When the client computes an ad-hoc match", func() {
			m := simulate.Generate(3, 1)[0]
			out, err := simulate.NewClient(server.URL, time.Second).Compute(context.Background(), m)

			Convey("Then the output verifies", func() {
				So(err, ShouldBeNil)
				So(simulate.VerifyOutput(m, out), ShouldBeNil)
			})
		})
	})

	Convey("Given an unhealthy service", t, func() {
		So(logger.Init(), ShouldBeNil)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		Convey("Then the run stops before generating", func() {
			stats, err := simulate.Run(context.Background(), &simulate.Config{
				BaseURL: server.URL, NumMatches: 1, Workers: 1, Timeout: time.Second,
			})
			So(errors.Is(err, simulate.ErrUnhealthy), ShouldBeTrue)
			So(errors.Is(err, simulate.ErrUnexpectedCode), ShouldBeTrue)
			So(stats.MatchesGenerated, ShouldEqual, 0)
		})
	})

	Convey("Given an empty configuration", t, func() {
		Convey("Then it is rejected", func() {
			_, err := simulate.Run(context.Background(), &simulate.Config{})
			So(errors.Is(err, simulate.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
