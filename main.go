package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"creatorplatform-server/routes"
	"creatorplatform-server/services"
	"creatorplatform-server/storage"
	"creatorplatform-server/utils"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeMediaStore()
	storage.InitializeRedis()
	services.LoadPolicyFromEnv()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	// JWT Verifiers
	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
	}

	profile := app.Party("/api/profile")
	{
		profile.Get("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMyProfile)
		profile.Post("/complete", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CompleteProfile)
		profile.Get("/check-username", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CheckUsername)
		profile.Put("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateProfile)
		profile.Post("/portfolio", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.AddPortfolioItem)
		profile.Delete("/portfolio", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.RemovePortfolioItem)
		profile.Get("/{username}", routes.GetProfileByUsername)
	}

	creator := app.Party("/api/creator")
	{
		creator.Get("/directory", routes.CreatorDirectory)
		creator.Get("/profile", accessTokenVerifierMiddleware, utils.CreatorOnlyMiddleware, routes.GetMyCreatorProfile)
		creator.Post("/profile", accessTokenVerifierMiddleware, utils.CreatorOnlyMiddleware, routes.UpsertCreatorProfile)
		creator.Delete("/profile", accessTokenVerifierMiddleware, utils.CreatorOnlyMiddleware, routes.DeleteCreatorProfile)
	}

	business := app.Party("/api/business")
	{
		business.Get("/directory", routes.BusinessDirectory)
		business.Get("/profile", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware, routes.GetMyBusinessProfile)
		business.Post("/profile", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware, routes.UpsertBusinessProfile)
		business.Get("/{slug}", routes.GetBusinessBySlug)
	}

	travel := app.Party("/api/travel")
	{
		travel.Get("/", accessTokenVerifierMiddleware, utils.CreatorOnlyMiddleware, routes.GetMyTravelSchedules)
		travel.Post("/", accessTokenVerifierMiddleware, utils.CreatorOnlyMiddleware, routes.SaveTravelSchedules)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
