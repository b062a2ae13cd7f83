package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	database "github.com/mkarwowski/ExpenseTracker/db"
	"github.com/mkarwowski/ExpenseTracker/internal/auth"
	"github.com/mkarwowski/ExpenseTracker/internal/cache"
	ledger "github.com/mkarwowski/ExpenseTracker/internal/ledger/application"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/infrastructure"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/interfaces"
	"github.com/mkarwowski/ExpenseTracker/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errs ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errs) > 0 && len(errs[0]) > 0 {
		payload["errors"] = errs[0]
	}
	respondJSON(w, status, payload)
}

type Server struct {
	router         *http.ServeMux
	dbService      *database.DBService
	authHandler    *auth.Handler
	authService    auth.Service
	userHandler    *user.Handler
	expenseHandler *interfaces.ExpenseHandler
	incomeHandler  *interfaces.IncomeHandler
	budgetHandler  *interfaces.BudgetHandler
	reportHandler  *interfaces.ReportHandler
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET provided")
	}
	if os.Getenv("DB_CONNECTION_STRING") == "" {
		return errors.New("no DB_CONNECTION_STRING provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.dbService.Health())
}

func (s *Server) RegisterRoutes() {
	protect := s.authService.JWTAccessTokenMiddleware()

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("POST /api/auth/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))
	publicRoutes.Handle("GET /api/health", http.HandlerFunc(s.handleHealth))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()

	protectedRoutes.Handle("GET /api/protected/profile", protect(http.HandlerFunc(s.userHandler.HandleGetProfile)))
	protectedRoutes.Handle("POST /api/protected/change-password", protect(http.HandlerFunc(s.userHandler.HandleChangePassword)))
	protectedRoutes.Handle("PUT /api/protected/profile/currency", protect(http.HandlerFunc(s.userHandler.HandleUpdateCurrency)))

	protectedRoutes.Handle("POST /api/protected/2fa/register", protect(http.HandlerFunc(s.authHandler.HandleRegisterTwoFactor)))
	protectedRoutes.Handle("POST /api/protected/2fa/confirm", protect(http.HandlerFunc(s.authHandler.HandleConfirmTwoFactor)))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", protect(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	// EXPENSES API
	protectedRoutes.Handle("POST /api/protected/expenses", protect(http.HandlerFunc(s.expenseHandler.CreateExpense)))
	protectedRoutes.Handle("GET /api/protected/expenses", protect(http.HandlerFunc(s.expenseHandler.GetUserExpenses)))
	protectedRoutes.Handle("GET /api/protected/expenses/{expenseID}", protect(http.HandlerFunc(s.expenseHandler.GetExpense)))
	protectedRoutes.Handle("PUT /api/protected/expenses/{expenseID}", protect(http.HandlerFunc(s.expenseHandler.UpdateExpense)))
	protectedRoutes.Handle("DELETE /api/protected/expenses/{expenseID}", protect(http.HandlerFunc(s.expenseHandler.DeleteExpense)))

	// INCOMES API
	protectedRoutes.Handle("POST /api/protected/incomes", protect(http.HandlerFunc(s.incomeHandler.CreateIncome)))
	protectedRoutes.Handle("GET /api/protected/incomes", protect(http.HandlerFunc(s.incomeHandler.GetUserIncomes)))
	protectedRoutes.Handle("GET /api/protected/incomes/{incomeID}", protect(http.HandlerFunc(s.incomeHandler.GetIncome)))
	protectedRoutes.Handle("PUT /api/protected/incomes/{incomeID}", protect(http.HandlerFunc(s.incomeHandler.UpdateIncome)))
	protectedRoutes.Handle("DELETE /api/protected/incomes/{incomeID}", protect(http.HandlerFunc(s.incomeHandler.DeleteIncome)))

	// BUDGETS API
	protectedRoutes.Handle("POST /api/protected/budgets", protect(http.HandlerFunc(s.budgetHandler.CreateBudget)))
	protectedRoutes.Handle("GET /api/protected/budgets", protect(http.HandlerFunc(s.budgetHandler.GetUserBudgets)))
	protectedRoutes.Handle("GET /api/protected/budgets/progress", protect(http.HandlerFunc(s.budgetHandler.GetBudgetProgress)))
	protectedRoutes.Handle("GET /api/protected/budgets/{budgetID}", protect(http.HandlerFunc(s.budgetHandler.GetBudget)))
	protectedRoutes.Handle("PUT /api/protected/budgets/{budgetID}", protect(http.HandlerFunc(s.budgetHandler.UpdateBudget)))
	protectedRoutes.Handle("DELETE /api/protected/budgets/{budgetID}", protect(http.HandlerFunc(s.budgetHandler.DeleteBudget)))

	// REPORTS API
	protectedRoutes.Handle("GET /api/protected/reports/summary", protect(http.HandlerFunc(s.reportHandler.GetFinancialSummary)))
	protectedRoutes.Handle("GET /api/protected/reports/cashflow", protect(http.HandlerFunc(s.reportHandler.GetCashFlow)))
	protectedRoutes.Handle("GET /api/protected/reports/expense-trends", protect(http.HandlerFunc(s.reportHandler.GetExpenseTrends)))

	// Refresh token route
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/auth/refresh", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.HandleRefreshAccessToken)))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/auth/refresh", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func StartRolloverScheduler(processor *ledger.RolloverProcessor) error {
	c := cron.New()
	// Runs shortly after midnight so ended budget windows roll over
	// before users check their morning numbers.
	_, err := c.AddFunc("15 0 * * *", func() {
		processed, err := processor.ProcessEndedBudgets(context.Background(), time.Now().UTC())
		if err != nil {
			log.Printf("Error processing budget rollovers: %v", err)
			return
		}
		if processed > 0 {
			log.Printf("Rolled %d budget(s) into their next period", processed)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server: %v", err)
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	if err := dbService.RunMigrations(); err != nil {
		log.Fatalf("Could not run database migrations: %v", err)
	}

	reportCache, err := cache.NewReportCache()
	if err != nil {
		log.Fatalf("Could not initialize report cache: %v", err)
	}

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo)
	userHandler := user.NewHandler(userService)

	sessionManager := auth.NewSessionManager()
	sessionManager.StartSessionTokenCleanup(10 * time.Minute)
	jwtManager := auth.NewJWTManager()
	authService := auth.NewAuthService(userService, sessionManager, jwtManager, &auth.Authenticator{})
	authHandler := auth.NewHandler(authService)

	ledgerStore := infrastructure.NewSQLLedgerStore(dbService.DB)
	evaluator := ledger.NewEvaluator(ledgerStore)

	expenseRepo := infrastructure.NewExpenseRepository(dbService.DB)
	expenseService := ledger.NewExpenseService(expenseRepo, reportCache)
	expenseHandler := interfaces.NewExpenseHandler(expenseService, respondJSON, respondError)

	incomeRepo := infrastructure.NewIncomeRepository(dbService.DB)
	incomeService := ledger.NewIncomeService(incomeRepo, reportCache)
	incomeHandler := interfaces.NewIncomeHandler(incomeService, respondJSON, respondError)

	budgetRepo := infrastructure.NewBudgetRepository(dbService.DB)
	budgetService := ledger.NewBudgetService(budgetRepo, evaluator, reportCache)
	budgetHandler := interfaces.NewBudgetHandler(budgetService, respondJSON, respondError)

	reportService := ledger.NewReportService(ledgerStore, reportCache)
	reportHandler := interfaces.NewReportHandler(reportService, respondJSON, respondError)

	server := &Server{
		dbService:      dbService,
		authHandler:    authHandler,
		authService:    authService,
		userHandler:    userHandler,
		expenseHandler: expenseHandler,
		incomeHandler:  incomeHandler,
		budgetHandler:  budgetHandler,
		reportHandler:  reportHandler,
	}
	server.RegisterRoutes()

	rolloverProcessor := ledger.NewRolloverProcessor(budgetRepo, evaluator)
	if err := StartRolloverScheduler(rolloverProcessor); err != nil {
		log.Fatalf("Rollover scheduler didn't start, stopping the app: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	handler := loggingMiddleware(server.router)
	log.Printf("Server starting on port %s...", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
