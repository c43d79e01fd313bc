package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/config"
	appHTTP "github.com/bistrohq/timeclock-backend-go/internal/handler/http"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/cron"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/database"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/jwt"
	"github.com/bistrohq/timeclock-backend-go/internal/repository/postgresql"
	attendanceService "github.com/bistrohq/timeclock-backend-go/internal/service/attendance"
	payrollService "github.com/bistrohq/timeclock-backend-go/internal/service/payroll"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal("Invalid APP_TIMEZONE: ", err)
	}

	clock := clockwork.NewRealClock()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hoursCalculator := attendanceService.NewHoursCalculator(cfg.Payroll)
	payCalculator := payrollService.NewCalculator(cfg.Payroll)

	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		attendanceRepo,
		employeeRepo,
		hoursCalculator,
		clock,
		loc,
	)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		attendanceRepo,
		employeeRepo,
		payCalculator,
		clock,
		loc,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	scheduler := cron.NewScheduler(clock)
	attendanceJobs := cron.NewAttendanceJobs(attendanceRepo, hoursCalculator, cfg.Payroll, clock)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(jwtService, attendanceHandler, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
