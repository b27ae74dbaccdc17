package main

import (
	"os"

	"github.com/campeloneto1/tripshare-sub000/routes"
	"github.com/campeloneto1/tripshare-sub000/services"
	"github.com/campeloneto1/tripshare-sub000/storage"
	"github.com/campeloneto1/tripshare-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()
	services.Initialize()

	app := iris.New()
	app.Validator = validator.New()

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

	authed := []iris.Handler{accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware}

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/search", accessTokenVerifierMiddleware, routes.SearchUsers)
		user.Get("/{id:uint}", accessTokenVerifierMiddleware, routes.GetUser)
		user.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUser)
		user.Get("/{id:uint}/posts", append(authed, routes.ListUserPosts)...)
	}

	follow := app.Party("/api/follow", authed...)
	{
		follow.Post("/", routes.CreateFollow)
		follow.Get("/", routes.ListFollows)
		follow.Get("/{id:uint}", routes.GetFollow)
		follow.Patch("/{id:uint}", routes.RespondFollow)
		follow.Delete("/{id:uint}", routes.DeleteFollow)
	}

	trip := app.Party("/api/trip", authed...)
	{
		trip.Post("/", routes.CreateTrip)
		trip.Get("/", routes.GetUserTrips)
		trip.Get("/{id:uint}", routes.GetTrip)
		trip.Patch("/{id:uint}", routes.UpdateTrip)
		trip.Delete("/{id:uint}", routes.DeleteTrip)
		trip.Get("/{id:uint}/summary", routes.GetTripSummary)

		trip.Post("/{id:uint}/members", routes.AddTripMember)
		trip.Patch("/{id:uint}/members/{memberId:uint}", routes.UpdateTripMemberRole)
		trip.Delete("/{id:uint}/members/{memberId:uint}", routes.RemoveTripMember)

		trip.Post("/{id:uint}/days", routes.CreateTripDay)
	}

	itinerary := app.Party("/api/itinerary", authed...)
	{
		itinerary.Delete("/days/{dayId:uint}", routes.DeleteTripDay)
		itinerary.Post("/days/{dayId:uint}/cities", routes.CreateTripDayCity)
		itinerary.Delete("/cities/{cityId:uint}", routes.DeleteTripDayCity)
		itinerary.Post("/cities/{cityId:uint}/events", routes.CreateTripDayEvent)
		itinerary.Patch("/events/{eventId:uint}", routes.UpdateTripDayEvent)
		itinerary.Delete("/events/{eventId:uint}", routes.DeleteTripDayEvent)

		itinerary.Get("/events/{eventId:uint}/reviews", routes.ListEventReviews)
		itinerary.Post("/events/{eventId:uint}/reviews", routes.CreateEventReview)
	}

	review := app.Party("/api/review", authed...)
	{
		review.Patch("/{id:uint}", routes.UpdateEventReview)
		review.Delete("/{id:uint}", routes.DeleteEventReview)
	}

	post := app.Party("/api/post", authed...)
	{
		post.Post("/", routes.CreatePost)
		post.Get("/{id:uint}", routes.GetPost)
		post.Patch("/{id:uint}", routes.UpdatePost)
		post.Delete("/{id:uint}", routes.DeletePost)
		post.Post("/{id:uint}/comments", routes.CreatePostComment)
		post.Delete("/{id:uint}/comments/{commentId:uint}", routes.DeletePostComment)
		post.Post("/{id:uint}/like", routes.LikePost)
		post.Delete("/{id:uint}/like", routes.UnlikePost)
	}

	vote := app.Party("/api/vote", authed...)
	{
		vote.Post("/questions", routes.CreateVoteQuestion)
		vote.Get("/votable/{votableType:string}/{votableId:uint}", routes.ListVotableQuestions)
		vote.Get("/questions/{id:uint}", routes.GetVoteQuestion)
		vote.Patch("/questions/{id:uint}", routes.UpdateVoteQuestion)
		vote.Delete("/questions/{id:uint}", routes.DeleteVoteQuestion)
		vote.Post("/questions/{id:uint}/answers", routes.CastVoteAnswer)
		vote.Patch("/questions/{id:uint}/answers", routes.ChangeVoteAnswer)
		vote.Delete("/questions/{id:uint}/answers", routes.RetractVoteAnswer)
	}

	notifications := app.Party("/api/notifications", authed...)
	{
		notifications.Get("/", routes.ListNotifications)
		notifications.Patch("/{id:uint}/read", routes.MarkNotificationRead)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/trips", routes.AdminListTrips)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	app.Listen(":" + port)
}
