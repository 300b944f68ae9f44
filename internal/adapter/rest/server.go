package rest

import (
	"net/http"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-engine/internal/usecase/account"
	"github.com/simaogato/ledger-engine/internal/usecase/transfer"
)

// Options configures the HTTP surface
type Options struct {
	AllowOrigins []string
}

// Server exposes the ledger engine over HTTP
type Server struct {
	TransferService *transfer.TransferService
	AccountService  *account.AccountService

	logger *zap.Logger
	router *gin.Engine
}

// NewServer creates a new HTTP server instance with its routes registered
func NewServer(
	transferService *transfer.TransferService,
	accountService *account.AccountService,
	opts Options,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	registerValidatorTagNames()

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(MetricsMiddleware())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", IdempotencyKeyHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(opts.AllowOrigins) == 0 || slices.Contains(opts.AllowOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowOrigins
	}
	router.Use(cors.New(corsConfig))

	s := &Server{
		TransferService: transferService,
		AccountService:  accountService,
		logger:          logger,
		router:          router,
	}
	s.registerRoutes()
	return s
}

// Handler returns the gin engine as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the internal gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/health", s.healthCheck)

	s.router.GET("/balance/:account_id", s.getBalance)
	s.router.POST("/deposit", s.deposit)
	s.router.POST("/withdraw", s.withdraw)
	s.router.POST("/transfer", s.transfer)

	accounts := s.router.Group("/accounts/:account_id")
	{
		accounts.GET("/transactions", s.listTransactions)
		accounts.GET("/summary", s.getSummary)
	}
}

// registerValidatorTagNames makes binding errors name fields by their
// json or form key instead of the Go field name
func registerValidatorTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}
