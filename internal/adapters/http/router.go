package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dkeye/meetsignal/internal/adapters/rtc"
	"github.com/dkeye/meetsignal/internal/adapters/signal"
	"github.com/dkeye/meetsignal/internal/app/orch"
	"github.com/dkeye/meetsignal/internal/config"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/dkeye/meetsignal/internal/meetingid"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const clientTokenKey = "ct"

// ClientTokenMiddleware gives every browser a stable token in its session
// cookie. It only correlates reconnects in logs; it is not authentication.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			session.Set(clientTokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

type Deps struct {
	Orch   *orch.Orchestrator
	Signal *signal.SignalWSController
	IDs    *meetingid.Generator
	ICE    rtc.ICEConfig
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("MeetSignalSessions", store))
	r.Use(ClientTokenMiddleware())

	r.GET("/health", func(c *gin.Context) {
		st := deps.Orch.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":             "ok",
			"activeMeetings":     st.ActiveMeetings,
			"activeParticipants": st.ActiveParticipants,
			"activeCalls":        st.ActiveCalls,
		})
	})

	r.GET("/call-status/:appointmentId", func(c *gin.Context) {
		id := domain.AppointmentID(c.Param("appointmentId"))
		c.JSON(http.StatusOK, deps.Orch.CallStatus(id))
	})

	ws := func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws signal endpoint hit")
		deps.Signal.HandleSignal(ctx, c)
	}
	r.GET("/ws", ws)

	api := r.Group("/api")
	api.GET("/ws/signal", ws)

	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.ICE)
	})

	api.POST("/meetings", func(c *gin.Context) {
		var req struct {
			AppointmentID string `json:"appointmentId"`
		}
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
				return
			}
		}
		if req.AppointmentID != "" {
			c.JSON(http.StatusOK, gin.H{
				"meetingId":     deps.IDs.Derive(req.AppointmentID),
				"appointmentId": req.AppointmentID,
			})
			return
		}
		id, err := meetingid.Random()
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("random meeting id")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate id"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"meetingId": id})
	})

	api.GET("/meetings/:meetingId/verify", func(c *gin.Context) {
		appointment := c.Query("appointmentId")
		if appointment == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing appointmentId"})
			return
		}
		meeting := c.Param("meetingId")
		c.JSON(http.StatusOK, gin.H{
			"meetingId":     meeting,
			"appointmentId": appointment,
			"valid":         deps.IDs.Verify(meeting, appointment),
		})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}

// WithCORS allows the configured browser origins on every route.
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(h)
}
