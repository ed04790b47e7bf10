package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"scholar-desk/config"
	"scholar-desk/models"
	"scholar-desk/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	articlesCreatedCounter prometheus.Counter
	entityRowsGauge        *prometheus.GaugeVec
)

func init() {
	articlesCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_created_total",
			Help: "Total number of research articles created via the API.",
		},
	)
	entityRowsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "entity_rows",
			Help: "Current number of rows per entity table.",
		},
		[]string{"entity"},
	)
	prometheus.MustRegister(articlesCreatedCounter, entityRowsGauge)
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to article database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.Article{}, &models.Author{}, &models.ArticleAuthor{},
		&models.Journal{}, &models.Conference{},
		&models.Review{}, &models.Reviewer{},
		&models.Citation{}, &models.UserAccount{},
	)

	// Setup Services
	resolver := services.NewEntityResolver(logging)
	articleService := services.NewArticleService(db, logging, resolver)
	reviewService := services.NewReviewService(db, logging, resolver)
	citationService := services.NewCitationService(db, logging)
	accountService := services.NewAccountService(db, logging)

	startTime := time.Now()

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	// Setup Routes (alle API-Routen hängen wie im Frontend erwartet unter /api)
	api := router.Group("/api")
	setupAuthRoutes(api, accountService, logging)
	setupArticleRoutes(api, articleService, reviewService, logging)
	setupAuthorRoutes(api, db, logging)
	setupJournalRoutes(api, db, logging)
	setupConferenceRoutes(api, db, logging)
	setupReviewRoutes(api, reviewService, logging)
	setupReviewerRoutes(api, db, logging)
	setupUserRoutes(api, accountService, logging)
	setupCitationRoutes(api, citationService, logging)
	setupStatsRoutes(api, db, startTime)

	// Setup Cron: Entity-Count-Gauges regelmäßig aktualisieren
	refreshEntityGauges(db, logging)
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.MetricsRefreshSchedule, func() {
		refreshEntityGauges(db, logging)
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// parseID liest einen numerischen Pfadparameter; nicht-numerische Werte
// behandeln die Handler wie eine unbekannte ID.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func setupAuthRoutes(rg *gin.RouterGroup, accounts *services.AccountService, log *zap.Logger) {
	auth := rg.Group("/auth")

	auth.POST("/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
			return
		}

		profile, err := accounts.Login(req.Username, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			log.Error("Login failed", zap.String("username", req.Username), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		c.JSON(http.StatusOK, profile)
	})

	auth.POST("/signup", func(c *gin.Context) {
		var req struct {
			Username    string `json:"username"`
			Password    string `json:"password"`
			Email       string `json:"email"`
			Affiliation string `json:"affiliation"`
			ORCID       string `json:"orcid"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" || req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username, password, and email are required"})
			return
		}

		profile, err := accounts.Signup(req.Username, req.Password, req.Email, req.Affiliation, req.ORCID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUsernameRequired),
				errors.Is(err, services.ErrPasswordRequired),
				errors.Is(err, services.ErrEmailRequired),
				errors.Is(err, services.ErrUsernameExists),
				errors.Is(err, services.ErrEmailExists):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				log.Error("Signup failed", zap.String("username", req.Username), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"user_id":     profile.UserID,
			"username":    profile.Username,
			"email":       profile.Email,
			"affiliation": profile.Affiliation,
			"orcid":       profile.ORCID,
			"role":        profile.Role,
			"message":     "User registered successfully",
		})
	})
}

func setupArticleRoutes(rg *gin.RouterGroup, articles *services.ArticleService, reviews *services.ReviewService, log *zap.Logger) {
	ar := rg.Group("/articles")

	ar.GET("", func(c *gin.Context) {
		summaries, err := articles.ListArticles()
		if err != nil {
			log.Error("Database query for articles failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summaries)
	})

	ar.GET("/search", func(c *gin.Context) {
		summaries, err := articles.SearchArticles(c.Query("q"))
		if err != nil {
			log.Error("Article search failed", zap.String("q", c.Query("q")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summaries)
	})

	ar.GET("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		detail, err := articles.GetArticleDetail(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
				return
			}
			log.Error("Database error while fetching article", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, detail)
	})

	ar.GET("/:id/reviews", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusOK, []services.ReviewRow{})
			return
		}
		rows, err := reviews.ListByArticle(id)
		if err != nil {
			log.Error("Database query for article reviews failed", zap.Uint("article_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	ar.POST("", func(c *gin.Context) {
		var req services.ArticleInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}
		if len(req.Authors) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "At least one author is required"})
			return
		}

		article, err := articles.CreateArticle(req)
		if err != nil {
			log.Error("Failed to create article", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		articlesCreatedCounter.Inc()
		c.JSON(http.StatusCreated, article)
	})

	ar.PUT("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		var req services.ArticleInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		article, err := articles.UpdateArticle(id, req)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
				return
			}
			log.Error("Failed to update article", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, article)
	})

	ar.DELETE("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		if err := articles.DeleteArticle(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
				return
			}
			log.Error("Failed to delete article", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
	})
}

func setupAuthorRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	au := rg.Group("/authors")

	au.GET("", func(c *gin.Context) {
		var authors []models.Author
		if err := db.Order("name").Find(&authors).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, authors)
	})

	au.GET("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
			return
		}
		var author models.Author
		if err := db.First(&author, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		articles := []models.Article{}
		err := db.Model(&models.Article{}).
			Joins("JOIN article_authors ON article_authors.article_id = research_articles.id").
			Where("article_authors.author_id = ?", id).
			Find(&articles).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, struct {
			models.Author
			Articles []models.Article `json:"articles"`
		}{author, articles})
	})

	au.POST("", func(c *gin.Context) {
		var req struct {
			Name        string `json:"name"`
			Affiliation string `json:"affiliation"`
			ORCID       string `json:"orcid"`
			UserID      *uint  `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		author := models.Author{Name: req.Name, UserID: req.UserID}
		if req.Affiliation != "" {
			author.Affiliation = &req.Affiliation
		}
		if req.ORCID != "" {
			author.ORCID = &req.ORCID
		}
		if err := db.Create(&author).Error; err != nil {
			log.Error("Failed to create author", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, author)
	})

	au.PUT("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
			return
		}
		var author models.Author
		if err := db.First(&author, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var req struct {
			Name        string  `json:"name"`
			Affiliation *string `json:"affiliation"`
			ORCID       *string `json:"orcid"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		updates := map[string]interface{}{
			"name":        req.Name,
			"affiliation": req.Affiliation,
			"orcid":       req.ORCID,
		}
		if err := db.Model(&author).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		db.First(&author, id)
		c.JSON(http.StatusOK, author)
	})

	au.DELETE("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
			return
		}
		result := db.Delete(&models.Author{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Author deleted"})
	})
}

func setupJournalRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	jo := rg.Group("/journals")

	jo.GET("", func(c *gin.Context) {
		var journals []models.Journal
		if err := db.Order("name").Find(&journals).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, journals)
	})

	jo.GET("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
			return
		}
		var journal models.Journal
		if err := db.First(&journal, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		articles := []models.Article{}
		if err := db.Where("journal_id = ?", id).Find(&articles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, struct {
			models.Journal
			Articles []models.Article `json:"articles"`
		}{journal, articles})
	})

	jo.POST("", func(c *gin.Context) {
		var req struct {
			Name         string   `json:"name"`
			Publisher    *string  `json:"publisher"`
			ISSN         *string  `json:"issn"`
			ImpactFactor *float64 `json:"impactFactor"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		journal := models.Journal{
			Name:         req.Name,
			Publisher:    req.Publisher,
			ISSN:         req.ISSN,
			ImpactFactor: req.ImpactFactor,
		}
		if err := db.Create(&journal).Error; err != nil {
			log.Error("Failed to create journal", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, journal)
	})

	jo.PUT("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
			return
		}
		var journal models.Journal
		if err := db.First(&journal, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var req struct {
			Name         string   `json:"name"`
			Publisher    *string  `json:"publisher"`
			ISSN         *string  `json:"issn"`
			ImpactFactor *float64 `json:"impactFactor"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		updates := map[string]interface{}{
			"name":          req.Name,
			"publisher":     req.Publisher,
			"issn":          req.ISSN,
			"impact_factor": req.ImpactFactor,
		}
		if err := db.Model(&journal).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		db.First(&journal, id)
		c.JSON(http.StatusOK, journal)
	})

	jo.DELETE("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
			return
		}
		result := db.Delete(&models.Journal{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Journal deleted"})
	})
}

func setupConferenceRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	co := rg.Group("/conferences")

	co.GET("", func(c *gin.Context) {
		var conferences []models.Conference
		if err := db.Order("start_date DESC").Find(&conferences).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, conferences)
	})

	co.POST("", func(c *gin.Context) {
		var req struct {
			Name      string `json:"name"`
			Location  string `json:"location"`
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		conference := models.Conference{Name: req.Name}
		if req.Location != "" {
			conference.Location = &req.Location
		}
		if req.StartDate != "" {
			date, err := services.ParseDate(req.StartDate)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			conference.StartDate = &date
		}
		if req.EndDate != "" {
			date, err := services.ParseDate(req.EndDate)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			conference.EndDate = &date
		}

		if err := db.Create(&conference).Error; err != nil {
			log.Error("Failed to create conference", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, conference)
	})

	co.PUT("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
			return
		}
		var conference models.Conference
		if err := db.First(&conference, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var req struct {
			Name      string  `json:"name"`
			Location  *string `json:"location"`
			StartDate string  `json:"startDate"`
			EndDate   string  `json:"endDate"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		updates := map[string]interface{}{
			"name":     req.Name,
			"location": req.Location,
		}
		if req.StartDate != "" {
			date, err := services.ParseDate(req.StartDate)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			updates["start_date"] = date
		} else {
			updates["start_date"] = nil
		}
		if req.EndDate != "" {
			date, err := services.ParseDate(req.EndDate)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			updates["end_date"] = date
		} else {
			updates["end_date"] = nil
		}

		if err := db.Model(&conference).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		db.First(&conference, id)
		c.JSON(http.StatusOK, conference)
	})

	co.DELETE("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
			return
		}
		result := db.Delete(&models.Conference{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Conference deleted"})
	})
}

func setupReviewRoutes(rg *gin.RouterGroup, reviews *services.ReviewService, log *zap.Logger) {
	re := rg.Group("/reviews")

	re.GET("", func(c *gin.Context) {
		rows, err := reviews.ListReviews()
		if err != nil {
			log.Error("Database query for reviews failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	re.POST("", func(c *gin.Context) {
		var req services.ReviewInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.ArticleID == 0 || req.ReviewerName == "" || req.ReviewDate == "" || req.Recommendation == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ArticleID, Reviewer Name, Review Date, and Recommendation are required"})
			return
		}

		row, err := reviews.CreateReview(req)
		if err != nil {
			log.Error("Failed to create review", zap.Uint("article_id", req.ArticleID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Review added successfully", "review": row})
	})

	re.PUT("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		var req struct {
			ReviewDate     string `json:"reviewDate"`
			Comments       string `json:"comments"`
			Recommendation string `json:"recommendation"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		row, err := reviews.UpdateReview(id, req.ReviewDate, req.Comments, req.Recommendation)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
				return
			}
			log.Error("Failed to update review", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, row)
	})

	re.DELETE("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		if err := reviews.DeleteReview(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	})
}

func setupReviewerRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rv := rg.Group("/reviewers")

	// Listen-Sicht inklusive Anzahl abgegebener Reviews
	type reviewerRow struct {
		ID            uint      `json:"id"`
		CreatedAt     time.Time `json:"created_at"`
		UpdatedAt     time.Time `json:"updated_at"`
		Name          string    `json:"name"`
		Affiliation   *string   `json:"affiliation"`
		ExpertiseArea *string   `json:"expertise_area"`
		UserID        *uint     `json:"user_id"`
		ReviewCount   int64     `json:"review_count"`
	}

	rv.GET("", func(c *gin.Context) {
		rows := []reviewerRow{}
		err := db.Table("reviewers").
			Select("reviewers.id, reviewers.created_at, reviewers.updated_at, reviewers.name, reviewers.affiliation, reviewers.expertise_area, reviewers.user_id, COUNT(reviews.id) AS review_count").
			Joins("LEFT JOIN reviews ON reviews.reviewer_id = reviewers.id").
			Group("reviewers.id").
			Order("reviewers.name").
			Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	rv.GET("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
			return
		}
		var reviewer models.Reviewer
		if err := db.First(&reviewer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		type reviewWithTitle struct {
			ID             uint      `json:"id"`
			ArticleID      uint      `json:"article_id"`
			ReviewerID     uint      `json:"reviewer_id"`
			ReviewDate     time.Time `json:"review_date"`
			Comments       *string   `json:"comments"`
			Recommendation string    `json:"recommendation"`
			ArticleTitle   *string   `json:"article_title"`
		}
		reviews := []reviewWithTitle{}
		err := db.Table("reviews").
			Select("reviews.id, reviews.article_id, reviews.reviewer_id, reviews.review_date, reviews.comments, reviews.recommendation, research_articles.title AS article_title").
			Joins("LEFT JOIN research_articles ON research_articles.id = reviews.article_id").
			Where("reviews.reviewer_id = ?", id).
			Order("reviews.review_date DESC").
			Scan(&reviews).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, struct {
			models.Reviewer
			Reviews []reviewWithTitle `json:"reviews"`
		}{reviewer, reviews})
	})

	rv.POST("", func(c *gin.Context) {
		var req struct {
			Name          string `json:"name"`
			Affiliation   string `json:"affiliation"`
			ExpertiseArea string `json:"expertiseArea"`
			UserID        *uint  `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		reviewer := models.Reviewer{Name: req.Name, UserID: req.UserID}
		if req.Affiliation != "" {
			reviewer.Affiliation = &req.Affiliation
		}
		if req.ExpertiseArea != "" {
			reviewer.ExpertiseArea = &req.ExpertiseArea
		}
		if err := db.Create(&reviewer).Error; err != nil {
			log.Error("Failed to create reviewer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, reviewer)
	})

	rv.PUT("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
			return
		}
		var reviewer models.Reviewer
		if err := db.First(&reviewer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var req struct {
			Name          string  `json:"name"`
			Affiliation   *string `json:"affiliation"`
			ExpertiseArea *string `json:"expertiseArea"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		updates := map[string]interface{}{
			"name":           req.Name,
			"affiliation":    req.Affiliation,
			"expertise_area": req.ExpertiseArea,
		}
		if err := db.Model(&reviewer).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		db.First(&reviewer, id)
		c.JSON(http.StatusOK, reviewer)
	})

	rv.DELETE("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
			return
		}
		result := db.Delete(&models.Reviewer{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Reviewer deleted"})
	})
}

func setupUserRoutes(rg *gin.RouterGroup, accounts *services.AccountService, log *zap.Logger) {
	us := rg.Group("/users")

	us.GET("", func(c *gin.Context) {
		profiles, err := accounts.ListUsers()
		if err != nil {
			log.Error("Database query for users failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, profiles)
	})

	us.GET("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		profile, err := accounts.GetUser(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, profile)
	})

	us.PUT("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		var req struct {
			Email       string `json:"email"`
			Affiliation string `json:"affiliation"`
			ORCID       string `json:"orcid"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		profile, err := accounts.UpdateUser(id, req.Email, req.Affiliation, req.ORCID)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			case errors.Is(err, services.ErrEmailInUse):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				log.Error("Failed to update user", zap.Uint("id", id), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, profile)
	})

	us.PUT("/:id/password", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		var req struct {
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
			return
		}

		if err := accounts.UpdatePassword(id, req.Password); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			log.Error("Failed to update password", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	})

	us.DELETE("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err := accounts.DeleteUser(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	})
}

// setupCitationRoutes konfiguriert alle Citation-bezogenen API-Routen
func setupCitationRoutes(rg *gin.RouterGroup, citations *services.CitationService, log *zap.Logger) {
	ci := rg.Group("/citations")

	ci.GET("/articles/:id/citations", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusOK, []services.OutgoingCitation{})
			return
		}
		rows, err := citations.ListOutgoing(id)
		if err != nil {
			log.Error("Database query for citations failed", zap.Uint("article_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	ci.GET("/articles/:id/cited-by", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusOK, []services.IncomingCitation{})
			return
		}
		rows, err := citations.ListIncoming(id)
		if err != nil {
			log.Error("Database query for cited-by failed", zap.Uint("article_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	ci.GET("/stats", func(c *gin.Context) {
		rows, err := citations.MostCited(10)
		if err != nil {
			log.Error("Database query for citation stats failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	ci.POST("", func(c *gin.Context) {
		var req struct {
			CitingArticleID uint   `json:"citingArticleId"`
			CitedArticleID  uint   `json:"citedArticleId"`
			CitationDate    string `json:"citationDate"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		row, err := citations.CreateCitation(req.CitingArticleID, req.CitedArticleID, req.CitationDate)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingCitationIDs),
				errors.Is(err, services.ErrSelfCitation),
				errors.Is(err, services.ErrCitationExists):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrCitingArticleNotFound),
				errors.Is(err, services.ErrCitedArticleNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			default:
				log.Error("Failed to create citation", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Citation added successfully", "citation": row})
	})

	ci.DELETE("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Citation not found"})
			return
		}
		if err := citations.DeleteCitation(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Citation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Citation deleted successfully"})
	})
}

func setupStatsRoutes(rg *gin.RouterGroup, db *gorm.DB, startTime time.Time) {
	rg.GET("/stats", func(c *gin.Context) {
		counts := map[string]int64{}
		for entity, model := range statTables() {
			var count int64
			if err := db.Model(model).Count(&count).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			counts[entity] = count
		}
		c.JSON(http.StatusOK, gin.H{
			"articles":    counts["articles"],
			"authors":     counts["authors"],
			"journals":    counts["journals"],
			"conferences": counts["conferences"],
			"reviews":     counts["reviews"],
			"reviewers":   counts["reviewers"],
		})
	})

	rg.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now(),
			"uptime":    time.Since(startTime).Seconds(),
		})
	})
}

func statTables() map[string]interface{} {
	return map[string]interface{}{
		"articles":    &models.Article{},
		"authors":     &models.Author{},
		"journals":    &models.Journal{},
		"conferences": &models.Conference{},
		"reviews":     &models.Review{},
		"reviewers":   &models.Reviewer{},
	}
}

// refreshEntityGauges aktualisiert die Row-Count-Gauges für Prometheus.
func refreshEntityGauges(db *gorm.DB, log *zap.Logger) {
	tables := statTables()
	tables["citations"] = &models.Citation{}
	tables["users"] = &models.UserAccount{}

	for entity, model := range tables {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			log.Warn("Failed to count entity rows", zap.String("entity", entity), zap.Error(err))
			continue
		}
		entityRowsGauge.WithLabelValues(entity).Set(float64(count))
	}
}
