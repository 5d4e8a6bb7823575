// Package web serves the vacation records over HTTP: a JSON API, an
// iCalendar feed and a page with the table and calendar.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vacation-planner/internal/colors"
	"vacation-planner/internal/form"
	"vacation-planner/internal/models"
)

//go:embed templates/*.html
var templates embed.FS

// Planner is the vacation service as seen by the HTTP surface.
type Planner interface {
	form.Recorder
	LoadAll(ctx context.Context) ([]models.VacationRecord, error)
	Delete(ctx context.Context, id string) error
	FilterByArea(area string) []models.VacationRecord
	Records() []models.VacationRecord
	Areas() []string
	Find(id string) (models.VacationRecord, bool)
	Overlapping(record models.VacationRecord) []models.VacationRecord
	Colors() *colors.Palette
}

type Options struct {
	// AllowOrigins enables CORS for the listed origins when not empty.
	AllowOrigins []string
	// Locale is passed to the calendar widget.
	Locale string
}

type server struct {
	planner Planner
	locale  string
	now     func() time.Time
	logger  logrus.FieldLogger
}

func NewRouter(planner Planner, opts Options, logger logrus.FieldLogger) *gin.Engine {
	s := &server{
		planner: planner,
		locale:  opts.Locale,
		now:     time.Now,
		logger:  logger,
	}
	return s.router(opts)
}

func (s *server) router(opts Options) *gin.Engine {
	r := gin.New()

	// Client IPs are only logged, never trusted
	r.ForwardedByClientIP = false
	_ = r.SetTrustedProxies([]string{})

	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(requestLogger(s.logger))

	if len(opts.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowOrigins,
			AllowMethods: []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
			AllowHeaders: []string{"Origin", "Content-Length", "Content-Type"},
		}))
	}

	r.NoRoute(func(c *gin.Context) {
		newError(c, http.StatusNotFound, "There is no resource at this path")
	})
	r.NoMethod(func(c *gin.Context) {
		newError(c, http.StatusMethodNotAllowed, "This HTTP method is not allowed for the endpoint you called")
	})

	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templates, "templates/*.html")))

	r.GET("/", s.getPage)
	r.GET("/calendar.ics", s.getICS)

	api := r.Group("/api")
	{
		api.GET("/records", s.listRecords)
		api.POST("/records", s.createRecord)
		api.GET("/records/:id", s.getRecord)
		api.PUT("/records/:id", s.updateRecord)
		api.DELETE("/records/:id", s.deleteRecord)
		api.GET("/areas", s.listAreas)
		api.GET("/calendar/events", s.listEvents)
		api.POST("/reload", s.reload)
	}

	return r
}

// requestLogger logs one line per request.
func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request-id": requestid.Get(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"size":       c.Writer.Size(),
			"latency":    time.Since(start).String(),
			"user-agent": c.Request.UserAgent(),
		})

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("Request failed")
		default:
			entry.Info("Request handled")
		}
	}
}
