package config

import (
	"os"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr  string `default:"" env:"APP_HOST"`
		Port        int    `default:"8080"  env:"APP_PORT"`
		BodyLimitMB int    `default:"50" env:"APP_BODY_LIMIT_MB"`
		SwaggerFile string `default:"./docs/swagger.json" env:"APP_SWAGGER_FILE"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"permits" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"noreply@umscc.co.zw" env:"SMTP_FROM"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"minioadmin" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"minioadmin" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"permit-documents" env:"S3_BUCKET_NAME"`
	}
	Auth struct {
		JWTSecret             string `default:"change-me" env:"JWT_SECRET"`
		JWTExpireInSec        int64  `default:"3600" env:"JWT_EXPIRE_IN_SEC"`
		JWTRefreshExpireInSec int64  `default:"604800" env:"JWT_REFRESH_EXPIRE_IN_SEC"`
	}
	Admin struct {
		Username string `default:"admin" env:"ADMIN_USERNAME"`
		Password string `default:"" env:"ADMIN_PASSWORD"`
		Email    string `default:"ict@umscc.co.zw" env:"ADMIN_EMAIL"`
	}
	Notification struct {
		Enabled         *bool  `default:"true" env:"NOTIFY_ENABLED"`
		Stage2Email     string `default:"chairperson@umscc.co.zw" env:"NOTIFY_STAGE2_EMAIL"`
		Stage3Email     string `default:"manager@manyame.co.zw" env:"NOTIFY_STAGE3_EMAIL"`
		Stage4Email     string `default:"catchment.chair@manyame.co.zw" env:"NOTIFY_STAGE4_EMAIL"`
		PermittingEmail string `default:"permitting@umscc.co.zw" env:"NOTIFY_PERMITTING_EMAIL"`
		IctEmail        string `default:"ict@umscc.co.zw" env:"NOTIFY_ICT_EMAIL"`
		SystemURL       string `default:"http://localhost:3000" env:"NOTIFY_SYSTEM_URL"`
	}
	Workflow struct {
		LockWaitSec            int `default:"5" env:"WORKFLOW_LOCK_WAIT_SEC"`
		ReminderAfterHours     int `default:"72" env:"WORKFLOW_REMINDER_AFTER_HOURS"`
		ReminderIntervalMinute int `default:"60" env:"WORKFLOW_REMINDER_INTERVAL_MIN"`
	}
	Permit struct {
		ValidityYears    int    `default:"5" env:"PERMIT_VALIDITY_YEARS"`
		ExpiryNoticeDays int    `default:"30" env:"PERMIT_EXPIRY_NOTICE_DAYS"`
		Catchment        string `default:"MANYAME" env:"PERMIT_CATCHMENT"`
		SubCatchment     string `default:"UPPER MANYAME" env:"PERMIT_SUB_CATCHMENT"`
		SignatoryName    string `default:"" env:"PERMIT_SIGNATORY_NAME"`
	}
	Upload struct {
		MaxFileSizeMB int64 `default:"10" env:"UPLOAD_MAX_FILE_SIZE_MB"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err = godotenv.Load(".env"); err != nil {
			log.WithError(err).Warn("failed to load .env file")
		}
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
