package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sajhasahayog/relief-api/aid"
	"github.com/sajhasahayog/relief-api/api"
	"github.com/sajhasahayog/relief-api/api/scheduler"
	"github.com/sajhasahayog/relief-api/config"
	"github.com/sajhasahayog/relief-api/dashboard"
	"github.com/sajhasahayog/relief-api/databases"
	"github.com/sajhasahayog/relief-api/dispatch"
	"github.com/sajhasahayog/relief-api/events"
	"github.com/sajhasahayog/relief-api/intake"
	"github.com/sajhasahayog/relief-api/notify"
	"github.com/sajhasahayog/relief-api/rehab"
	"github.com/sajhasahayog/relief-api/storage"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router *mux.Router
	Config config.Config
	// Photos and Mailer are built from Config by Initialize; Mailer may stay nil
	Photos    storage.PhotoUploader
	Mailer    notify.Mailer
	Bus       *events.Bus
	Hub       *LiveHub
	Metrics   *api.MetricsCollector
	Scheduler *scheduler.Scheduler

	dbHelper databases.DatabaseHelper
	client   databases.ClientHelper
}

// NewApp wires an App around an already connected database
func NewApp(conf config.Config, db databases.DatabaseHelper, photos storage.PhotoUploader, mailer notify.Mailer) *App {
	a := &App{Config: conf, dbHelper: db, Photos: photos, Mailer: mailer}
	a.Router = a.New()
	return a
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	users := databases.NewUserDatabase(a.dbHelper)
	missing := databases.NewMissingPersonDatabase(a.dbHelper)
	damage := databases.NewDamageReportDatabase(a.dbHelper)
	cases := databases.NewRehabCaseDatabase(a.dbHelper)
	logs := databases.NewAidLogDatabase(a.dbHelper)

	a.Bus = events.NewBus()
	a.Hub = NewLiveHub()
	a.Metrics = api.NewMetricsCollector(100)

	intakeService := &intake.Service{Missing: missing, Damage: damage, Photos: a.Photos, Events: a.Bus}
	dispatchService := &dispatch.Service{Missing: missing, Damage: damage, Events: a.Bus}
	rehabService := &rehab.Service{Cases: cases, Damage: damage, Events: a.Bus}
	aidService := &aid.Service{Logs: logs, Cases: cases, Photos: a.Photos, Events: a.Bus}
	aggregator := dashboard.NewAggregator(dispatchService, rehabService, aidService)

	a.Bus.Subscribe(aggregator.Handle)
	a.Bus.Subscribe(a.Hub.Handle)
	if a.Mailer != nil {
		notifier := &notify.Notifier{Users: users, Mailer: a.Mailer}
		a.Bus.Subscribe(notifier.Handle)
	}

	m := api.NewAuth(users, a.Config.JWTSecret, a.Config.TokenTTL)
	u := User{DB: users, AdminCode: a.Config.AdminSignupCode}
	report := Report{Intake: intakeService}
	d := Dispatch{Service: dispatchService}
	rh := Rehab{Service: rehabService}
	ad := Aid{Service: aidService}
	dash := Dashboard{Aggregator: aggregator}
	consult := Consultation{DB: databases.NewConsultationDatabase(a.dbHelper)}
	metrics := Metrics{Collector: a.Metrics}

	// healthchex
	r := api.New()
	r.Use(a.Metrics.MetricsMiddleware)

	r.Handle("/ws/admin/feed", api.TokenQuery(m.AdminMiddleware(http.HandlerFunc(a.Hub.FeedHandler)))).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(a.Config.RequestTimeout))

	apiCreate.HandleFunc("/auth/signup", u.SignupHandler).Methods("POST")
	apiCreate.Handle("/auth/token", m.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", m.Middleware(http.HandlerFunc(m.RevokeToken))).Methods("DELETE")

	apiCreate.HandleFunc("/labels", LabelsHandler).Methods("GET")
	apiCreate.Handle("/consultations", m.Optional(http.HandlerFunc(consult.CreateHandler))).Methods("POST")

	apiCreate.Handle("/reports/missing", m.Middleware(http.HandlerFunc(report.MissingPersonHandler))).Methods("POST")
	apiCreate.Handle("/reports/damage", m.Middleware(http.HandlerFunc(report.DamageReportHandler))).Methods("POST")
	apiCreate.Handle("/reports/mine", m.Middleware(http.HandlerFunc(report.MineHandler))).Methods("GET")

	apiCreate.Handle("/admin/dashboard", m.AdminMiddleware(http.HandlerFunc(dash.DashboardHandler))).Methods("GET")
	apiCreate.Handle("/admin/reports", m.AdminMiddleware(http.HandlerFunc(dash.ReportsHandler))).Methods("GET")
	apiCreate.Handle("/admin/map", m.AdminMiddleware(http.HandlerFunc(dash.MapHandler))).Methods("GET")
	apiCreate.Handle("/admin/gallery", m.AdminMiddleware(http.HandlerFunc(dash.GalleryHandler))).Methods("GET")
	apiCreate.Handle("/admin/export", m.AdminMiddleware(http.HandlerFunc(dash.ExportHandler))).Methods("GET")

	apiCreate.Handle("/admin/reports/{kind}/{id}/dispatch", m.AdminMiddleware(http.HandlerFunc(d.DispatchHandler))).Methods("POST")
	apiCreate.Handle("/admin/reports/{kind}/{id}/in-progress", m.AdminMiddleware(http.HandlerFunc(d.InProgressHandler))).Methods("POST")
	apiCreate.Handle("/admin/reports/{kind}/{id}/resolve", m.AdminMiddleware(http.HandlerFunc(d.ResolveHandler))).Methods("POST")

	apiCreate.Handle("/admin/reports/damage/{id}/rehab-cases", m.AdminMiddleware(http.HandlerFunc(rh.CreateHandler))).Methods("POST")
	apiCreate.Handle("/admin/rehab-cases", m.AdminMiddleware(http.HandlerFunc(rh.ListHandler))).Methods("GET")
	apiCreate.Handle("/admin/rehab-cases/{id}/status", m.AdminMiddleware(http.HandlerFunc(rh.StatusHandler))).Methods("PUT")

	apiCreate.Handle("/admin/aid-logs", m.AdminMiddleware(http.HandlerFunc(ad.LogHandler))).Methods("POST")
	apiCreate.Handle("/admin/aid-logs", m.AdminMiddleware(http.HandlerFunc(ad.ListHandler))).Methods("GET")

	apiCreate.Handle("/admin/consultations", m.AdminMiddleware(http.HandlerFunc(consult.ListHandler))).Methods("GET")
	apiCreate.Handle("/admin/metrics", m.AdminMiddleware(http.HandlerFunc(metrics.SummaryHandler))).Methods("GET")

	if a.Config.DigestSchedule != "" && a.Mailer != nil {
		a.Scheduler = scheduler.NewScheduler(rehabService, a.Mailer, a.Config.AdminDigestEmail)
	}

	return r
}

// Initialize is invoked by main to connect with the database, the photo store and the
// mailer, and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("relief-api has connected to the database")

	if a.Photos == nil {
		photos, err := newPhotoStore(ctx, a.Config)
		if err != nil {
			return err
		}
		a.Photos = photos
	}
	if a.Mailer == nil && a.Config.SendGridAPIKey != "" {
		a.Mailer = notify.NewSendGrid(a.Config.SendGridAPIKey, a.Config.NotifyFromEmail)
	}

	// initialize api router
	a.initializeRoutes()

	if a.Scheduler != nil {
		if err := a.Scheduler.Start(a.Config.DigestSchedule); err != nil {
			return fmt.Errorf("failed to start digest scheduler: %w", err)
		}
	}
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Close stops the background workers and disconnects from the database
func (a *App) Close(ctx context.Context) error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Metrics != nil {
		a.Metrics.Stop()
	}
	if a.client != nil {
		return a.client.Disconnect(ctx)
	}
	return nil
}

func newPhotoStore(ctx context.Context, conf config.Config) (*storage.Photos, error) {
	photos := &storage.Photos{
		ReportBucket:   conf.ReportPhotoBucket,
		EvidenceBucket: conf.EvidenceBucket,
		MaxDimension:   conf.PhotoMaxDimension,
	}
	switch strings.ToLower(conf.StorageBackend) {
	case "s3":
		s, err := storage.NewS3(ctx, conf.AWSRegion, conf.AWSAccessKeyID, conf.AWSSecretAccessKey, conf.S3PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set up s3: %w", err)
		}
		photos.Store = s
	case "cloudinary", "":
		c, err := storage.NewCloudinary(conf.CloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set up cloudinary: %w", err)
		}
		photos.Store = c
	default:
		return nil, fmt.Errorf("unknown storage backend %q", conf.StorageBackend)
	}
	return photos, nil
}
