// Package site assembles the public router from its route groups.
package site

import (
	"net/http"

	"immigria-site/internal/assessment"
	"immigria-site/internal/common/config"
	apperrors "immigria-site/internal/common/errors"
	sitehttp "immigria-site/internal/common/http"
	"immigria-site/internal/common/logger"
	"immigria-site/internal/common/observability"
	"immigria-site/internal/content"
	"immigria-site/internal/submission"
	"immigria-site/internal/web"

	aa "immigria-site/internal/routes/assessment/assessment-api"
	aw "immigria-site/internal/routes/assessment/assessment-wizard"
	sd "immigria-site/internal/routes/content/service-detail"
	sp "immigria-site/internal/routes/content/static-pages"
	lf "immigria-site/internal/routes/forms/lead-form"
)

// Site is the wired public server plus the pieces its lifecycle needs.
type Site struct {
	Server    *sitehttp.Server
	Ops       http.Handler
	Submitter *submission.Submitter
	Store     assessment.SessionStore
}

// New wires every route group onto a server for cfg. obs may be nil.
func New(cfg *config.Config, store assessment.SessionStore, obs *observability.Observability, log logger.Logger) (*Site, error) {
	catalog, err := content.Default()
	if err != nil {
		return nil, err
	}
	renderer, err := web.NewRenderer(catalog)
	if err != nil {
		return nil, err
	}

	submitter := submission.NewSubmitter(cfg.Submission.Delay(), obs, log)
	errs := apperrors.NewErrorHandler(log)

	var limiter *sitehttp.Limiter
	if cfg.RateLimit.Enabled {
		limiter = sitehttp.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	static := sp.NewHandler(catalog, renderer, log)
	srv := sitehttp.NewServer(cfg.Server, log)
	srv.Mount(
		static,
		sd.NewHandler(catalog, renderer, errs, log),
		aw.NewHandler(aw.LoadConfig(cfg), store, renderer, log),
		aa.NewHandler(aa.LoadConfig(cfg), store, errs, log),
		lf.NewHandler(lf.LoadConfig(), catalog, renderer, submitter, limiter, errs, log),
	)
	srv.NotFound(http.HandlerFunc(static.NotFound))

	ready := sitehttp.ReadinessCheck(store.Ping)
	if rs, ok := store.(*assessment.RedisStore); ok {
		ready = rs.Ready
	}

	return &Site{
		Server: srv,
		Ops: sitehttp.NewOpsRouter(map[string]sitehttp.ReadinessCheck{
			"sessions": ready,
		}),
		Submitter: submitter,
		Store:     store,
	}, nil
}
