package connection

import (
	"context"
	"fmt"
	"log"
	"time"

	firebase "firebase.google.com/go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotelbooking/controller/admin"
	"hotelbooking/controller/auth"
	"hotelbooking/controller/comment"
	"hotelbooking/controller/hotel"
	"hotelbooking/controller/reservation"
	"hotelbooking/controller/user"
	"hotelbooking/dto"
	"hotelbooking/scheduler"
	"hotelbooking/services"
)

// Deps are the backends the router is built on.
type Deps struct {
	Store           services.Store
	Uploader        services.Uploader
	Captcha         services.CaptchaVerifier
	BookingLocation *time.Location
}

func NewRouter(d Deps) *gin.Engine {
	if err := dto.RegisterValidations(); err != nil {
		log.Printf("register validations: %v", err)
	}

	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	users := services.NewUserService(d.Store, d.Uploader)
	hotels := services.NewHotelService(d.Store, d.Uploader)
	panels := services.NewPanelService(d.Store, d.Uploader)
	reservations := services.NewReservationService(d.Store, d.BookingLocation)
	comments := services.NewCommentService(d.Store)
	verification := services.NewVerificationService(d.Store, d.Uploader)

	auth.SignInController(router, users)
	auth.SignUpController(router, users)
	if d.Captcha != nil {
		auth.CaptchaController(router, d.Captcha)
	}
	user.UserController(router, users, verification)
	hotel.HotelController(router, hotels, users, panels)
	comment.CommentController(router, comments)
	reservation.ReservationController(router, reservations)
	admin.AdminController(router, admin.Services{
		Users:        users,
		Hotels:       hotels,
		Panels:       panels,
		Verification: verification,
	})
	return router
}

type backends struct {
	cfg *Config
	app *firebase.App
}

func (b *backends) firebaseApp(ctx context.Context) (*firebase.App, error) {
	if b.app != nil {
		return b.app, nil
	}
	app, err := FBApp(ctx, b.cfg)
	if err != nil {
		return nil, err
	}
	b.app = app
	return app, nil
}

func (b *backends) store(ctx context.Context) (services.Store, error) {
	switch b.cfg.StoreDriver {
	case "firestore":
		app, err := b.firebaseApp(ctx)
		if err != nil {
			return nil, err
		}
		client, err := FBConnection(ctx, app)
		if err != nil {
			return nil, err
		}
		return services.NewFirestoreStore(client), nil
	case "mongo":
		client, err := MongoConnection(ctx, b.cfg)
		if err != nil {
			return nil, err
		}
		return services.NewMongoStore(client, b.cfg.MongoDatabase), nil
	case "memory":
		log.Println("Warning: using in-memory store, data is lost on restart")
		return services.NewMemStore(), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", b.cfg.StoreDriver)
}

func (b *backends) uploader(ctx context.Context) (services.Uploader, error) {
	switch b.cfg.UploadDriver {
	case "firebase":
		app, err := b.firebaseApp(ctx)
		if err != nil {
			return nil, err
		}
		bucket, err := FBStorageBucket(ctx, app, b.cfg.StorageBucket)
		if err != nil {
			return nil, err
		}
		return services.NewFirebaseUploader(bucket, b.cfg.StorageBucket), nil
	case "cloudinary":
		return services.NewCloudinaryUploader(b.cfg.CloudinaryURL)
	case "memory":
		return services.NewMemUploader(), nil
	}
	return nil, fmt.Errorf("unknown UPLOAD_DRIVER %q", b.cfg.UploadDriver)
}

func StartServer() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	ctx := context.Background()
	b := &backends{cfg: cfg}

	store, err := b.store(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	uploader, err := b.uploader(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize uploader: %v", err)
	}

	var captcha services.CaptchaVerifier
	if cfg.RecaptchaProjID != "" {
		captcha = &services.RecaptchaVerifier{
			ProjectID:       cfg.RecaptchaProjID,
			SiteKey:         cfg.RecaptchaKey,
			CredentialsPath: cfg.RecaptchaCreds,
		}
	}

	sweeper, err := scheduler.StartScheduler(cfg.SweepSchedule, cfg.BookingLocation,
		services.NewReservationService(store, cfg.BookingLocation))
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sweeper.Stop()

	router := NewRouter(Deps{
		Store:           store,
		Uploader:        uploader,
		Captcha:         captcha,
		BookingLocation: cfg.BookingLocation,
	})
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
