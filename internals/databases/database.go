package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	expensemodel "schoolbill_backend/internals/features/finance/expenses/model"
	feemodel "schoolbill_backend/internals/features/finance/feestructures/model"
	invoicemodel "schoolbill_backend/internals/features/finance/invoices/model"
	paymentmodel "schoolbill_backend/internals/features/finance/payments/model"
	planmodel "schoolbill_backend/internals/features/finance/paymentplans/model"
	studentmodel "schoolbill_backend/internals/features/school/students/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=schoolbill&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer friendly
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connect failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")

	if getenv("DB_AUTOMIGRATE", "false") == "true" {
		if err := Migrate(DB); err != nil {
			log.Fatalf("❌ automigrate failed: %v", err)
		}
		log.Println("✅ automigrate done.")
	}
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates/updates the billing schema. Also used by the test helpers
// against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&studentmodel.Student{},
		&feemodel.FeeStructure{},
		&feemodel.StudentFeeOverride{},
		&feemodel.Scholarship{},
		&feemodel.StudentScholarship{},
		&invoicemodel.Invoice{},
		&invoicemodel.InvoiceItem{},
		&paymentmodel.FeePayment{},
		&paymentmodel.FinanceTransaction{},
		&paymentmodel.ReceiptCounter{},
		&planmodel.PaymentPlan{},
		&planmodel.PlanInstallment{},
		&expensemodel.Expense{},
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
