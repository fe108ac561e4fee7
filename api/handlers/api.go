package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/api/scheduler"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/config"
	"github.com/crestmont/site-api/models"
	"github.com/crestmont/site-api/session"
)

// App stores the router and the CMS transport, so they can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	requester cms.Requester
	sessions  *session.MemoryStore
	hub       *Hub
	scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	authService := cms.NewAuthService(a.requester)
	m := api.MiddlewareAuth{Auth: authService, Secret: a.Config.AdminJWTSecret}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	mediaBase := a.Config.CMSBaseURL
	tracker := session.NewTracker(a.sessions)

	ann := Announcement{
		Service: cms.NewAnnouncementService(a.requester, mediaBase),
		Tracker: tracker,
	}
	stream := Stream{Hub: a.hub}
	n := Notice{Service: cms.NewNoticeService(a.requester, mediaBase)}
	rep := Report{Service: cms.NewReportService(a.requester, mediaBase)}
	g := Gallery{Service: cms.NewGalleryService(a.requester, mediaBase)}
	p := Press{Service: cms.NewPressService(a.requester, mediaBase)}
	b := Board{Service: cms.NewBoardService(a.requester, mediaBase)}
	contact := Contact{Config: a.Config}
	authH := Auth{Service: authService, Config: a.Config}
	adminAnn := AdminAnnouncement{Service: cms.NewAnnouncementService(a.requester, mediaBase)}
	cloudinaryHandler := CloudinaryHandler{}
	metrics := Metrics{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/announcements", http.HandlerFunc(ann.ActiveAnnouncementsHandler)).Methods("GET")
	apiCreate.Handle("/announcements/presentation", http.HandlerFunc(ann.PresentationHandler)).Methods("GET")
	apiCreate.Handle("/announcements/presentation/advance", http.HandlerFunc(ann.AdvanceHandler)).Methods("POST")
	apiCreate.Handle("/announcements/presentation/dismiss", http.HandlerFunc(ann.DismissHandler)).Methods("POST")
	apiCreate.Handle("/announcements/stream", http.HandlerFunc(stream.ServeWS)).Methods("GET")

	apiCreate.Handle("/notices", http.HandlerFunc(n.NoticesHandler)).Methods("GET")
	apiCreate.Handle("/notices/featured", http.HandlerFunc(n.FeaturedNoticeHandler)).Methods("GET")
	apiCreate.Handle("/notices/{slug}", http.HandlerFunc(n.NoticeBySlugHandler)).Methods("GET")

	apiCreate.Handle("/reports", http.HandlerFunc(rep.ReportsHandler)).Methods("GET")
	apiCreate.Handle("/galleries", http.HandlerFunc(g.GalleriesHandler)).Methods("GET")
	apiCreate.Handle("/press-releases", http.HandlerFunc(p.PressReleasesHandler)).Methods("GET")
	apiCreate.Handle("/press-releases/{slug}", http.HandlerFunc(p.PressReleaseBySlugHandler)).Methods("GET")
	apiCreate.Handle("/board-members", http.HandlerFunc(b.BoardMembersHandler)).Methods("GET")
	apiCreate.Handle("/board-members/{member_id}", http.HandlerFunc(b.BoardMemberByIDHandler)).Methods("GET")

	apiCreate.Handle("/contact", http.HandlerFunc(contact.SubmitHandler)).Methods("POST")

	apiCreate.Handle("/auth/login", http.HandlerFunc(authH.LoginHandler)).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(authH.LogoutHandler))).Methods("POST")
	apiCreate.Handle("/auth/session", api.Middleware(http.HandlerFunc(authH.SessionHandler))).Methods("GET")

	apiCreate.Handle("/admin/announcements", api.Middleware(http.HandlerFunc(adminAnn.ListHandler))).Methods("GET")
	apiCreate.Handle("/admin/announcements", api.Middleware(http.HandlerFunc(adminAnn.CreateHandler))).Methods("POST")
	apiCreate.Handle("/admin/announcements/{announcement_id}", api.Middleware(http.HandlerFunc(adminAnn.GetHandler))).Methods("GET")
	apiCreate.Handle("/admin/announcements/{announcement_id}", api.Middleware(http.HandlerFunc(adminAnn.UpdateHandler))).Methods("PUT")
	apiCreate.Handle("/admin/announcements/{announcement_id}", api.Middleware(http.HandlerFunc(adminAnn.DeleteHandler))).Methods("DELETE")
	apiCreate.Handle("/admin/media/signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	apiCreate.Handle("/metrics", api.Middleware(http.HandlerFunc(metrics.TracesHandler))).Methods("GET")
	apiCreate.Handle("/metrics/summary", api.Middleware(http.HandlerFunc(metrics.SummaryHandler))).Methods("GET")
	apiCreate.Handle("/metrics/routes", api.Middleware(http.HandlerFunc(metrics.RoutesHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to wire the CMS transport and create a router
func (a *App) Initialize() error {
	a.requester = cms.NewClient(&a.Config, api.RecordUpstreamCall)
	a.sessions = session.NewMemoryStore(a.Config.SessionTTL)
	a.hub = NewHub()
	go a.hub.Run()

	api.InitMetrics(10000, 1*time.Hour)

	a.initializeRoutes()

	a.scheduler = scheduler.New(
		cms.NewAnnouncementService(a.requester, a.Config.CMSBaseURL),
		a.sessions,
		a.hub,
		func() { cms.InvalidateCache(a.requester) },
	)
	a.scheduler.Start()
	zap.S().Info("site-api scheduler started")

	return nil
}

func (a *App) initializeRoutes() {
	r := a.New()

	c := cors.New(cors.Options{
		AllowedOrigins:   a.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(api.MetricsMiddleware)
	r.Use(api.TimeoutMiddleware(30 * time.Second))
	r.Use(c.Handler)
	r.Use(func(next http.Handler) http.Handler {
		return gzhttp.GzipHandler(next)
	})

	a.Router = r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
