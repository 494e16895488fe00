package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires every endpoint under /api. Routes are grouped by the
// authorization pattern they require: public, authenticated (ownership
// checked in the handler from token claims), and admin-only.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/api", func(r chi.Router) {
		// Public reads and auth entry points
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/signup", handlers.authHandler.signup())
		r.Post("/auth/google-login", handlers.authHandler.googleLogin())

		r.Get("/project/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/featured", handlers.projectHandler.getFeaturedProjects())
		r.Get("/project/sortedbyprice", handlers.projectHandler.getProjectsSortedByPrice())
		r.Get("/project/searchprojects", handlers.projectHandler.searchProjects())
		r.Get("/project/filter/rating", handlers.projectHandler.filterByRating())
		r.Get("/project/filter/category", handlers.projectHandler.filterByCategory())
		r.Get("/project/filter/price", handlers.projectHandler.filterByPrice())
		r.Get("/project/filter/permission", handlers.projectHandler.filterByPermission())
		r.Get("/project/categories", handlers.projectHandler.getCategories())
		r.Get("/project/reviews/{projectID}", handlers.projectHandler.getProjectReviews())
		r.Get("/project/user/{userID}", handlers.projectHandler.getProjectsByOwner())
		r.Get("/project/ownerrating/{userID}", handlers.projectHandler.getOwnerRating())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())

		r.Get("/review/reviews", handlers.reviewHandler.getAllReviews())
		r.Get("/review/project/{projectID}", handlers.reviewHandler.getReviewsByProject())
		r.Get("/review/{reviewID}", handlers.reviewHandler.getReview())

		r.Get("/user/{userID}", handlers.userHandler.getUser())

		// Authenticated routes; self/owner checks happen in the handlers
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/auth/me", handlers.authHandler.getCurrentUser())

			r.Post("/project/createproject", handlers.projectHandler.createProject())
			r.Put("/project/update/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/project/delete/{projectID}", handlers.projectHandler.deleteProject())
			r.Get("/project/revenue/{projectID}", handlers.projectHandler.getProjectRevenue())
			r.Get("/project/revenue/{projectID}/{month}", handlers.projectHandler.getProjectRevenueForMonth())
			r.Get("/project/buyers/{projectID}", handlers.projectHandler.getProjectBuyers())

			r.Put("/user/update/{userID}", handlers.userHandler.updateUser())
			r.Get("/user/wishlist/{userID}", handlers.userHandler.getWishlist())
			r.Put("/user/wishlist/add/{userID}/{projectID}", handlers.userHandler.addToWishlist())
			r.Put("/user/wishlist/remove/{userID}/{projectID}", handlers.userHandler.removeFromWishlist())
			r.Get("/user/cart/{userID}", handlers.userHandler.getCart())
			r.Put("/user/cart/add/{userID}/{projectID}", handlers.userHandler.addToCart())
			r.Put("/user/cart/remove/{userID}/{projectID}", handlers.userHandler.removeFromCart())
			r.Get("/user/bought/{userID}", handlers.userHandler.getBoughtProjects())
			r.Put("/user/buy/{userID}/{projectID}", handlers.userHandler.buyProject())
			r.Get("/user/revenue/{userID}", handlers.userHandler.getSellerRevenue())
			r.Get("/user/revenue/{userID}/{month}", handlers.userHandler.getSellerRevenueForMonth())
			r.Get("/user/sales/{userID}", handlers.userHandler.getSellerSales())
			r.Get("/user/sales/{userID}/{month}", handlers.userHandler.getSellerSalesForMonth())
			r.Post("/user/create-payment-intent", handlers.userHandler.createPaymentIntent())

			r.Post("/review/createreview", handlers.reviewHandler.createReview())
			r.Put("/review/update/{reviewID}", handlers.reviewHandler.updateReview())
			r.Delete("/review/delete/{reviewID}", handlers.reviewHandler.deleteReview())

			r.Get("/order/user/{userID}", handlers.orderHandler.getOrdersByUser())
			r.Get("/order/{orderID}", handlers.orderHandler.getOrder())

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.requireAdmin)

				r.Get("/user/users", handlers.userHandler.getAllUsers())
				r.Delete("/user/delete/{userID}", handlers.userHandler.deleteUser())

				r.Get("/project/approve/{projectID}", handlers.projectHandler.approveProject())
				r.Get("/project/reject/{projectID}", handlers.projectHandler.rejectProject())

				r.Get("/order/orders", handlers.orderHandler.getAllOrders())
				r.Post("/order/createorder", handlers.orderHandler.createOrder())
				r.Put("/order/update/{orderID}", handlers.orderHandler.updateOrder())
				r.Put("/order/complete/{orderID}", handlers.orderHandler.completeOrder())
				r.Delete("/order/delete/{orderID}", handlers.orderHandler.deleteOrder())

				r.Get("/transaction/transactions", handlers.transactionHandler.getAllTransactions())
				r.Get("/transaction/filter/status", handlers.transactionHandler.filterByStatus())
				r.Get("/transaction/{transactionID}", handlers.transactionHandler.getTransaction())
				r.Post("/transaction/createtransaction", handlers.transactionHandler.createTransaction())
				r.Put("/transaction/process/{transactionID}", handlers.transactionHandler.processPayment())
				r.Put("/transaction/update/{transactionID}", handlers.transactionHandler.updateTransaction())
				r.Delete("/transaction/delete/{transactionID}", handlers.transactionHandler.deleteTransaction())
			})
		})
	})
}
