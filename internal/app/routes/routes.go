// Package routes wires controllers into the HTTP route table.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/eren/driveshare/internal/app/controllers"
	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/middleware"
	"github.com/eren/driveshare/internal/pkg/websocket"
)

// Controllers groups every controller the router needs.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Car      *controllers.CarController
	CarImage *controllers.CarImageController
	Category *controllers.CategoryController
	Review   *controllers.ReviewController
	Address  *controllers.AddressController
	Chat     *controllers.ChatController
	Admin    *controllers.AdminController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	wsHandler *websocket.Handler,
	authRateLimit gin.HandlerFunc,
	uploadDir string,
) {
	api := router.Group("/api")

	// --- Public auth routes ---
	auth := api.Group("/auth")
	auth.Use(authRateLimit)
	{
		auth.POST("/signup", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.GET("/verify-email", ctrl.Auth.VerifyEmail)
		auth.POST("/resend-verification-email", ctrl.Auth.ResendVerification)
		// Route casing kept for client compatibility
		auth.POST("/forgot-Password", ctrl.Auth.ForgotPassword)
		auth.PATCH("/reset-password/:token", ctrl.Auth.ResetPassword)
		auth.POST("/refresh-token", ctrl.Auth.RefreshToken)
		auth.POST("/logout", authMiddleware.Protect(), ctrl.Auth.Logout)
	}

	// --- Public browsing routes ---
	cars := api.Group("/cars")
	{
		cars.GET("", ctrl.Car.GetAll)
		cars.GET("/:id", ctrl.Car.GetByID)
		cars.GET("/:id/reviews", ctrl.Review.GetByCarID)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", ctrl.Category.GetAll)
		categories.GET("/:id", ctrl.Category.GetByID)
	}

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.Protect())
	{
		users := authenticated.Group("/users")
		{
			users.GET("/profile", ctrl.User.GetProfile)
			users.PUT("/profile", ctrl.User.UpdateProfile)
			users.POST("/profile/image", ctrl.User.UploadProfileImage)
			users.DELETE("/profile", ctrl.User.DeactivateAccount)
		}

		addresses := authenticated.Group("/addresses")
		{
			addresses.POST("", ctrl.Address.Create)
			addresses.GET("", ctrl.Address.GetAll)
			addresses.PUT("/:id", ctrl.Address.Update)
			addresses.DELETE("/:id", ctrl.Address.Delete)
		}

		reviews := authenticated.Group("/reviews")
		{
			reviews.PUT("/:id", ctrl.Review.Update)
			reviews.DELETE("/:id", ctrl.Review.Delete)
		}
		authenticated.POST("/cars/:id/reviews", ctrl.Review.Create)

		chats := authenticated.Group("/chats")
		{
			chats.GET("/lender", authMiddleware.RequireRoles(models.RoleLender, models.RoleAdmin), ctrl.Chat.GetLenderChats)
			chats.GET("/:id", ctrl.Chat.GetChat)
		}

		// Listing management requires the lender role; ownership is enforced
		// at the service layer so admins pass through too.
		lenderCars := authenticated.Group("/cars")
		lenderCars.Use(authMiddleware.RequireRoles(models.RoleLender, models.RoleAdmin))
		{
			lenderCars.POST("", ctrl.Car.Create)
			lenderCars.PUT("/:id", ctrl.Car.Update)
			lenderCars.DELETE("/:id", ctrl.Car.Delete)

			lenderCars.POST("/:id/images", ctrl.CarImage.Upload)
			lenderCars.PUT("/:id/images/reorder", ctrl.CarImage.Reorder)
			lenderCars.PATCH("/:id/images/:imageId", ctrl.CarImage.Update)
			lenderCars.DELETE("/:id/images/:imageId", ctrl.CarImage.Delete)
		}

		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/users", ctrl.Admin.ListUsers)
			admin.GET("/users/:id", ctrl.Admin.GetUser)
			admin.PATCH("/users/:id/role", ctrl.Admin.ChangeRole)
			admin.PATCH("/users/:id/status", ctrl.Admin.ChangeStatus)
			admin.DELETE("/users/:id", ctrl.Admin.DeleteUser)

			admin.POST("/categories", ctrl.Category.Create)
			admin.PUT("/categories/:id", ctrl.Category.Update)
			admin.DELETE("/categories/:id", ctrl.Category.Delete)
		}
	}

	// Websocket endpoint. The connection authenticates itself with an
	// authenticate event after the upgrade.
	router.GET("/ws", wsHandler.HandleConnection)

	// Uploaded images are served directly.
	router.Static("/uploads", uploadDir)
}
