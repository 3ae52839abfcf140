package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"traintrace/internal/auth"
	"traintrace/internal/httpserver/handlers"
	"traintrace/internal/metrics"
	"traintrace/internal/services/roster"
	"traintrace/internal/services/trainees"
	"traintrace/internal/services/verification"
	"traintrace/internal/store"
)

// Deps are the collaborators the routes are built from. Everything is
// constructed once in main.
type Deps struct {
	Store          store.Repository
	Codec          auth.Codec
	Credentials    *auth.Verifier
	Trainees       *trainees.Service
	Roster         *roster.Importer
	Verifier       *verification.Verifier
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
	Logger         *zap.SugaredLogger
}

func NewRouter(d Deps) http.Handler {
	lg := d.Logger
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Post("/login", handlers.Login(d.Credentials, d.Codec, lg))
	r.Get("/auth/status", handlers.AuthStatus(d.Codec))
	r.Get("/verify/{id}", handlers.Verify(d.Verifier, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.RequireSession(d.Codec))
		protected.Post("/logout", handlers.Logout(d.Codec, lg))

		protected.Route("/trainings", func(tr chi.Router) {
			tr.Get("/", handlers.ListTrainings(d.Store, lg))
			tr.Post("/", handlers.CreateTraining(d.Store, lg))
			tr.Get("/{id}", handlers.GetTraining(d.Store, lg))
			tr.Patch("/{id}", handlers.UpdateTraining(d.Store, lg))
			tr.Delete("/{id}", handlers.DeleteTraining(d.Store, lg))
			tr.Get("/{id}/trainees", handlers.ListTrainingTrainees(d.Store, lg))
			tr.Get("/{id}/trainees/export", handlers.ExportTrainees(d.Store, lg))
		})

		protected.Route("/trainees", func(te chi.Router) {
			te.Get("/", handlers.ListTrainees(d.Store, lg))
			te.Post("/", handlers.CreateTrainee(d.Trainees, lg))
			te.Post("/upload", handlers.UploadRoster(d.Roster, d.MaxUploadBytes, lg))
			te.Get("/template", handlers.RosterTemplate())
			te.Get("/{id}", handlers.GetTrainee(d.Store, lg))
			te.Patch("/{id}", handlers.UpdateTrainee(d.Trainees, lg))
			te.Delete("/{id}", handlers.DeleteTrainee(d.Store, lg))
			te.Get("/{id}/certificate", handlers.DownloadCertificate(d.Store, lg))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	return r
}
