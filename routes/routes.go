package routes

import (
	"log/slog"
	"net/http"
	"time"

	"SIABSEN/attendance"
	"SIABSEN/config"
	"SIABSEN/controllers/absen"
	"SIABSEN/controllers/auth"
	"SIABSEN/controllers/face"
	feedctl "SIABSEN/controllers/feed"
	"SIABSEN/descriptor"
	"SIABSEN/feed"
	"SIABSEN/logger"
	"SIABSEN/middleware"
	"SIABSEN/scan"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Controller *scan.Controller
	Store      *descriptor.Store
	Log        *attendance.Log
	Feed       *feed.Feed
	Admin      config.AdminConfig
	Location   *time.Location
	StaticDir  string
	Logger     *slog.Logger
}

func SetupRouter(d Deps) *gin.Engine {
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(d.Logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Endpoint lama, dipakai langsung oleh halaman web
	r.GET("/descriptors.json", face.GetDescriptorsHandler(d.Store))
	r.GET("/attendance.json", absen.GetAttendanceJSON(d.Log))

	api := r.Group("/api")
	{
		api.POST("/login", auth.LoginHandler(d.Admin))

		api.GET("/faces", face.ListFacesHandler(d.Store))
		api.POST("/enroll", face.EnrollHandler(d.Controller))
		api.POST("/recognize", absen.RecognizeHandler(d.Controller))
		api.GET("/scan/status", absen.ScanStatusHandler(d.Controller))
		api.POST("/scan/cancel", absen.CancelScanHandler(d.Controller))

		api.POST("/feed", feedctl.PushFrameHandler(d.Feed))
		api.POST("/feed/heartbeat", feedctl.HeartbeatHandler(d.Feed))
		api.GET("/feed", feedctl.FeedStatusHandler(d.Feed))

		api.GET("/attendance", absen.GetAllAbsen(d.Log))
		api.GET("/attendance/names", absen.GetNames(d.Log))
		api.GET("/attendance/export.csv", absen.ExportHandler(d.Log, attendance.FormatCSV, d.Location))
		api.GET("/attendance/export.json", absen.ExportHandler(d.Log, attendance.FormatJSON, d.Location))

		// Penimpaan data mentah dan reset hanya untuk admin
		admin := api.Group("/", middleware.RequireAdmin())
		admin.POST("/saveDescriptors", face.SaveDescriptorsHandler(d.Store))
		admin.POST("/saveAttendance", absen.SaveAttendanceHandler(d.Log))
		admin.POST("/reset", absen.ResetHandler(d.Controller))
	}

	// Hosting halaman web statis (index.html, js/, models/)
	if d.StaticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(d.StaticDir))))
	}

	return r
}
