package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/verification-code", s.requestVerificationCode)
	auth.POST("/verify-email", s.verifyEmail)
	auth.POST("/forgot-password", s.forgotPassword)
	auth.POST("/reset-password", s.resetPassword)

	users := api.Group("/users/:user_id")
	users.GET("/workouts", s.listWorkouts)
	users.POST("/workouts", s.createWorkout)
	users.GET("/workouts/:id", s.getWorkout)
	users.PUT("/workouts/:id", s.updateWorkout)
	users.DELETE("/workouts/:id", s.deleteWorkout)
}
