package httpgin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/flytau/flytau/internal/domain"
	"github.com/flytau/flytau/internal/service"
	"github.com/flytau/flytau/internal/service/admin"
	"github.com/flytau/flytau/internal/service/auth"
	"github.com/flytau/flytau/internal/service/booking"
	"github.com/flytau/flytau/internal/service/flights"
)

func NewRouter(
	svcs *service.Services,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.POST("/auth/register", handleRegister(svcs))
	r.POST("/auth/login", handleLogin(svcs))
	r.POST("/auth/manager/login", handleManagerLogin(svcs))

	r.GET("/airports", handleAirports(svcs))
	r.GET("/routes", handleRoutes(svcs))
	r.GET("/flights", handleSearchFlights(svcs))
	r.GET("/flights/:number", handleGetFlight(svcs))
	r.GET("/flights/:number/availability", handleAvailability(svcs))
	r.GET("/flights/:number/seats", handleSeatMap(svcs))

	// Orders are shared between guests and signed-in customers: a guest
	// proves ownership with booking code + email, a customer with a token.
	ordersGroup := r.Group("/orders", OptionalJWT(svcs.Auth))
	{
		ordersGroup.POST("", handleCheckout(svcs))
		ordersGroup.GET("/:code", handleGetOrder(svcs))
		ordersGroup.POST("/:code/cancel", handleCancelOrder(svcs))
		ordersGroup.PUT("/:code/seats", handleChangeSeats(svcs))
	}

	my := r.Group("/my", JWTAuth(svcs.Auth), RequireRole(auth.RoleCustomer))
	{
		my.GET("/orders", handleMyOrders(svcs))
	}

	adminGroup := r.Group("/admin", JWTAuth(svcs.Auth), RequireRole(auth.RoleManager))
	{
		adminGroup.GET("/dashboard", handleDashboard(svcs))

		adminGroup.GET("/flights", handleAdminFlights(svcs))
		adminGroup.GET("/flights/:number", handleAdminFlightDetail(svcs))
		adminGroup.POST("/flights/:number/cancel", handleCancelFlight(svcs))

		adminGroup.POST("/drafts", handleStartDraft(svcs))
		adminGroup.GET("/drafts/:id/options", handleDraftOptions(svcs))
		adminGroup.PUT("/drafts/:id/resources", handleSetResources(svcs))
		adminGroup.POST("/drafts/:id/commit", handleCommitDraft(svcs))

		adminGroup.GET("/aircraft", handleListAircraft(svcs))
		adminGroup.GET("/aircraft/:id/location", handleAircraftLocation(svcs))
		adminGroup.GET("/crew", handleCrewRoster(svcs))

		reportsGroup := adminGroup.Group("/reports")
		{
			reportsGroup.GET("/occupancy", handleReportOccupancy(svcs))
			reportsGroup.GET("/revenue", handleReportRevenue(svcs))
			reportsGroup.GET("/crew-hours", handleReportCrewHours(svcs))
			reportsGroup.GET("/cancellation-rate", handleReportCancellationRate(svcs))
			reportsGroup.GET("/aircraft-activity", handleReportAircraftActivity(svcs))
		}
	}

	return r
}

// --- Auth handlers ---

// @Summary  Register customer
// @Param    req body  RegisterRequest true "payload"
// @Success  201
// @Failure  409 {object} ErrorResponse "email taken"
// @Router   /auth/register [post]
func handleRegister(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		customer := domain.Customer{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Passport:  req.Passport,
		}
		if req.BirthDate != "" {
			bd, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				badRequest(c, "invalid birth_date (YYYY-MM-DD)")
				return
			}
			customer.BirthDate = &bd
		}

		if err := svcs.Auth.RegisterCustomer(c.Request.Context(), customer, req.Password); err != nil {
			respondErr(c, err)
			return
		}

		c.Status(http.StatusCreated)
	}
}

// @Summary  Customer login
// @Param    req body  LoginRequest true "payload"
// @Success  200 {object} LoginResponse
// @Failure  401 {object} ErrorResponse
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /auth/login [post]
func handleLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		token, customer, err := svcs.Auth.LoginCustomer(
			c.Request.Context(),
			req.Email,
			req.Password,
			"login:ip:"+c.ClientIP(),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Token:     token,
			Role:      auth.RoleCustomer,
			FirstName: customer.FirstName,
			LastName:  customer.LastName,
		})
	}
}

// @Summary  Manager login
// @Param    req body  ManagerLoginRequest true "payload"
// @Success  200 {object} LoginResponse
// @Failure  401 {object} ErrorResponse
// @Router   /auth/manager/login [post]
func handleManagerLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ManagerLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		token, manager, err := svcs.Auth.LoginManager(
			c.Request.Context(),
			req.Code,
			req.Password,
			"login:ip:"+c.ClientIP(),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Token:     token,
			Role:      auth.RoleManager,
			FirstName: manager.FirstName,
			LastName:  manager.LastName,
		})
	}
}

// --- Public flight handlers ---

// @Summary  List served airports
// @Success  200 {array} string
// @Router   /airports [get]
func handleAirports(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ports, err := svcs.Flights.Airports(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, ports, "public, max-age=300", true)
	}
}

// @Summary  List flown routes
// @Success  200 {array} postgresrepo.Route
// @Router   /routes [get]
func handleRoutes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes, err := svcs.Flights.Routes(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, routes, "public, max-age=300", true)
	}
}

// @Summary  Search bookable flights
// @Param    date        query  string  false  "YYYY-MM-DD"
// @Param    origin      query  string  false  "airport code"
// @Param    destination query  string  false  "airport code"
// @Success  200 {array} flights.SearchResult
// @Router   /flights [get]
func handleSearchFlights(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var date *time.Time
		if s := c.Query("date"); s != "" {
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				badRequest(c, "invalid date (YYYY-MM-DD)")
				return
			}
			date = &d
		}

		results, err := svcs.Flights.Search(
			c.Request.Context(),
			date,
			strings.ToUpper(c.Query("origin")),
			strings.ToUpper(c.Query("destination")),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, results, "public, max-age=30", true)
	}
}

// @Summary  Get flight
// @Param    number  path  string  true  "Flight number"
// @Success  200 {object} domain.FlightWithAircraft
// @Failure  404 {object} ErrorResponse
// @Router   /flights/{number} [get]
func handleGetFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		fw, err := svcs.Flights.Get(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, fw, "public, max-age=60", true)
	}
}

// @Summary  Seats left per cabin
// @Param    number  path  string  true  "Flight number"
// @Success  200 {object} domain.SeatAvailability
// @Router   /flights/{number}/availability [get]
func handleAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		avail, err := svcs.Flights.Availability(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, avail, "public, max-age=15", true)
	}
}

// @Summary  Seat map with per-seat status
// @Param    number  path  string  true  "Flight number"
// @Success  200 {array} domain.SeatWithStatus
// @Router   /flights/{number}/seats [get]
func handleSeatMap(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		seats, err := svcs.Flights.SeatMap(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, seats, "public, max-age=15", true)
	}
}

// --- Order handlers ---

// @Summary  Checkout (idempotent via Idempotency-Key header)
// @Param    req body  CheckoutRequest true "payload"
// @Success  201 {object} domain.OrderWithTickets
// @Failure  409 {object} ErrorResponse "seat taken / checkout in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /orders [post]
func handleCheckout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		purchaser := booking.Purchaser{
			CustomerEmail: authedSubject(c, auth.RoleCustomer),
		}
		if purchaser.CustomerEmail == "" {
			if req.GuestEmail == "" || req.GuestFirstName == "" || req.GuestLastName == "" {
				badRequest(c, "guest checkout requires guest_email, guest_first_name and guest_last_name")
				return
			}
			purchaser.GuestEmail = strings.ToLower(strings.TrimSpace(req.GuestEmail))
			purchaser.GuestFirstName = req.GuestFirstName
			purchaser.GuestLastName = req.GuestLastName
		}

		owt, err := svcs.Booking.Checkout(c.Request.Context(), booking.CheckoutInput{
			FlightNumber:   req.FlightNumber,
			SeatCodes:      req.SeatCodes,
			Purchaser:      purchaser,
			IdempotencyKey: strings.TrimSpace(c.GetHeader("Idempotency-Key")),
		}, "checkout:ip:"+c.ClientIP())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, owt)
	}
}

// ownerEmail resolves whose order is being acted on: the signed-in
// customer's email, or the guest email passed alongside the booking code.
func ownerEmail(c *gin.Context, guestEmail string) (string, bool) {
	if email := authedSubject(c, auth.RoleCustomer); email != "" {
		return email, true
	}

	guestEmail = strings.ToLower(strings.TrimSpace(guestEmail))
	if guestEmail == "" {
		badRequest(c, "email required")
		return "", false
	}

	return guestEmail, true
}

// @Summary  Get order with tickets
// @Param    code   path   string  true   "Booking code"
// @Param    email  query  string  false  "guest email"
// @Success  200 {object} domain.OrderWithTickets
// @Failure  404 {object} ErrorResponse
// @Router   /orders/{code} [get]
func handleGetOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := ownerEmail(c, c.Query("email"))
		if !ok {
			return
		}

		owt, err := svcs.Booking.Get(c.Request.Context(), c.Param("code"), email)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, owt)
	}
}

// @Summary  Cancel order (>36h before departure, 5% fee)
// @Param    code  path  string  true  "Booking code"
// @Param    req   body  OrderLookupRequest false "guest email"
// @Success  200 {object} CancelOrderResponse
// @Failure  409 {object} ErrorResponse "inside the cancellation window"
// @Router   /orders/{code}/cancel [post]
func handleCancelOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrderLookupRequest
		_ = c.ShouldBindJSON(&req)

		email, ok := ownerEmail(c, req.Email)
		if !ok {
			return
		}

		result, err := svcs.Booking.Cancel(c.Request.Context(), c.Param("code"), email)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, CancelOrderResponse{
			BookingCode: result.BookingCode,
			FeeCents:    result.FeeCents,
			RefundCents: result.RefundCents,
		})
	}
}

// @Summary  Change seats on an order
// @Param    code  path  string  true  "Booking code"
// @Param    req   body  ChangeSeatsRequest true "payload"
// @Success  200 {object} domain.OrderWithTickets
// @Failure  409 {object} ErrorResponse "seat taken"
// @Router   /orders/{code}/seats [put]
func handleChangeSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangeSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		email, ok := ownerEmail(c, req.Email)
		if !ok {
			return
		}

		owt, err := svcs.Booking.ChangeSeats(c.Request.Context(), c.Param("code"), email, req.SeatCodes)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, owt)
	}
}

// @Summary  List my orders
// @Param    status  query  string  false  "order status filter"
// @Success  200 {array} postgresrepo.OrderSummary
// @Router   /my/orders [get]
func handleMyOrders(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svcs.Booking.List(
			c.Request.Context(),
			c.GetString(ctxKeySubject),
			domain.OrderStatus(c.Query("status")),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// --- Admin handlers ---

// @Summary  Dashboard counters
// @Success  200 {object} domain.DashboardStats
// @Router   /admin/dashboard [get]
func handleDashboard(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svcs.Admin.Dashboard(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// @Summary  List flights
// @Param    status  query  string  false  "flight status filter"
// @Success  200 {array} domain.FlightWithAircraft
// @Router   /admin/flights [get]
func handleAdminFlights(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.ListFlights(c.Request.Context(), domain.FlightStatus(c.Query("status")))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary  Flight detail with crew
// @Param    number  path  string  true  "Flight number"
// @Success  200 {object} admin.FlightDetail
// @Failure  404 {object} ErrorResponse
// @Router   /admin/flights/{number} [get]
func handleAdminFlightDetail(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svcs.Admin.GetFlight(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// @Summary  Cancel flight (>72h, zero-refund system cancel of orders)
// @Param    number  path  string  true  "Flight number"
// @Success  204
// @Failure  409 {object} ErrorResponse "inside the cancellation window"
// @Router   /admin/flights/{number}/cancel [post]
func handleCancelFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svcs.Admin.CancelFlight(
			c.Request.Context(),
			c.GetString(ctxKeySubject),
			c.Param("number"),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Start add-flight draft (step 1: route and schedule)
// @Param    req body  StartDraftRequest true "payload"
// @Success  201 {object} redisrepo.FlightDraft
// @Router   /admin/drafts [post]
func handleStartDraft(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartDraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		departure, err := parseRFC3339(req.Departure)
		if err != nil {
			badRequest(c, "invalid departure (RFC3339)")
			return
		}

		draft, err := svcs.Admin.StartDraft(
			c.Request.Context(),
			c.GetString(ctxKeySubject),
			req.Origin,
			req.Destination,
			departure,
			req.DurationMin,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, draft)
	}
}

// @Summary  Draft resource options (step 2 form data)
// @Param    id  path  string  true  "Draft ID"
// @Success  200 {object} admin.DraftOptions
// @Failure  404 {object} ErrorResponse "draft expired"
// @Router   /admin/drafts/{id}/options [get]
func handleDraftOptions(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts, err := svcs.Admin.Options(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, opts)
	}
}

// @Summary  Pick aircraft and crew (step 2)
// @Param    id   path  string  true  "Draft ID"
// @Param    req  body  SetResourcesRequest true "payload"
// @Success  200 {object} redisrepo.FlightDraft
// @Failure  409 {object} ErrorResponse "resource unavailable"
// @Router   /admin/drafts/{id}/resources [put]
func handleSetResources(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetResourcesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		draft, err := svcs.Admin.SetResources(
			c.Request.Context(),
			c.Param("id"),
			req.AircraftID,
			req.PilotIDs,
			req.AttendantIDs,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, draft)
	}
}

// @Summary  Price and create the flight (step 3)
// @Param    id   path  string  true  "Draft ID"
// @Param    req  body  CommitDraftRequest true "payload"
// @Success  201 {object} domain.Flight
// @Failure  409 {object} ErrorResponse "resource no longer available"
// @Router   /admin/drafts/{id}/commit [post]
func handleCommitDraft(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CommitDraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		flight, err := svcs.Admin.CommitDraft(
			c.Request.Context(),
			c.Param("id"),
			req.EconomyCents,
			req.BusinessCents,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, flight)
	}
}

// @Summary  Fleet with derived seat counts
// @Success  200 {array} admin.AircraftInfo
// @Router   /admin/aircraft [get]
func handleListAircraft(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		fleet, err := svcs.Admin.ListAircraft(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, fleet)
	}
}

// @Summary  Aircraft location at a time
// @Param    id  path   int     true   "Aircraft ID"
// @Param    at  query  string  false  "RFC3339, default now"
// @Success  200 {object} map[string]string
// @Failure  404 {object} ErrorResponse
// @Router   /admin/aircraft/{id}/location [get]
func handleAircraftLocation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		aircraftID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		at := time.Now()
		if s := c.Query("at"); s != "" {
			t, err := parseRFC3339(s)
			if err != nil {
				badRequest(c, "invalid at (RFC3339)")
				return
			}
			at = t
		}

		location, err := svcs.Admin.AircraftLocation(c.Request.Context(), aircraftID, at)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"location": location})
	}
}

// @Summary  Crew roster
// @Param    role  query  string  false  "pilot or attendant"
// @Success  200 {array} domain.CrewMember
// @Router   /admin/crew [get]
func handleCrewRoster(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		members, err := svcs.Admin.CrewRoster(c.Request.Context(), domain.CrewRole(c.Query("role")))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	}
}

// --- Report handlers ---

// @Summary  Occupancy per occurred flight
// @Success  200 {array} domain.OccupancyRow
// @Router   /admin/reports/occupancy [get]
func handleReportOccupancy(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svcs.Reports.Occupancy(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// @Summary  Revenue by manufacturer and cabin
// @Success  200 {array} domain.RevenueRow
// @Router   /admin/reports/revenue [get]
func handleReportRevenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svcs.Reports.Revenue(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// @Summary  Flight hours per crew member, short vs long
// @Success  200 {array} domain.CrewHoursRow
// @Router   /admin/reports/crew-hours [get]
func handleReportCrewHours(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svcs.Reports.CrewHours(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// @Summary  Monthly order cancellation rate
// @Success  200 {array} domain.CancellationRateRow
// @Router   /admin/reports/cancellation-rate [get]
func handleReportCancellationRate(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svcs.Reports.CancellationRate(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// @Summary  Monthly aircraft activity
// @Success  200 {array} domain.AircraftActivityRow
// @Router   /admin/reports/aircraft-activity [get]
func handleReportAircraftActivity(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svcs.Reports.AircraftActivity(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// auth service
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "email already registered"})
		return
	case errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "password too short"})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		return
	case errors.Is(err, auth.ErrRateLimited), errors.Is(err, booking.ErrRateLimited):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many attempts"})
		return
	// flights service
	case errors.Is(err, flights.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
		return
	// booking service
	case errors.Is(err, booking.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
		return
	case errors.Is(err, booking.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
		return
	case errors.Is(err, booking.ErrFlightNotBookable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "flight is not open for booking"})
		return
	case errors.Is(err, booking.ErrSeatTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat already taken"})
		return
	case errors.Is(err, booking.ErrInvalidSeat):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid seat selection"})
		return
	case errors.Is(err, booking.ErrNotConfirmed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "order is not confirmed"})
		return
	case errors.Is(err, booking.ErrNotCancellable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "order can no longer be cancelled"})
		return
	case errors.Is(err, booking.ErrCheckoutInProgress):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusConflict, ErrorResponse{Error: "checkout already in progress"})
		return
	// admin service
	case errors.Is(err, admin.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
		return
	case errors.Is(err, admin.ErrAircraftNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "aircraft not found"})
		return
	case errors.Is(err, admin.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "draft not found or expired"})
		return
	case errors.Is(err, admin.ErrDraftIncomplete):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "draft is missing a previous step"})
		return
	case errors.Is(err, admin.ErrSameAirports):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "origin and destination must differ"})
		return
	case errors.Is(err, admin.ErrDepartureInPast):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "departure must be in the future"})
		return
	case errors.Is(err, admin.ErrInvalidDuration):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "duration must be positive"})
		return
	case errors.Is(err, admin.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "economy price must be positive"})
		return
	case errors.Is(err, admin.ErrBusinessPriceNeeded):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "business price required for this aircraft"})
		return
	case errors.Is(err, admin.ErrBusinessPriceExtra):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "aircraft has no business cabin"})
		return
	case errors.Is(err, admin.ErrCrewCount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "wrong crew headcount for aircraft size"})
		return
	case errors.Is(err, admin.ErrAircraftUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "aircraft unavailable for this window"})
		return
	case errors.Is(err, admin.ErrCrewUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "crew member unavailable for this window"})
		return
	case errors.Is(err, admin.ErrLongHaulAircraft):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "long flights require a large aircraft"})
		return
	case errors.Is(err, admin.ErrFlightNotCancellable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "flight can no longer be cancelled"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
