package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learncraft/internal/bot"
	"learncraft/internal/config"
	"learncraft/internal/generator"
	"learncraft/internal/repository"
	"learncraft/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	routineRepo := repository.NewRoutineRepository(db)
	priorityRepo := repository.NewPriorityRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	gemini, err := generator.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("gemini: %v", err)
	}

	subjectSvc := service.NewSubjectService(subjectRepo)
	routineSvc := service.NewRoutineService(routineRepo)
	prioritySvc := service.NewPriorityService(priorityRepo)
	plannerSvc := service.NewPlannerService(gemini, scheduleRepo)
	reminderSvc := service.NewReminderService(scheduleRepo)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, subjectSvc, routineSvc, prioritySvc, plannerSvc, reminderSvc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.ReportTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.ReportTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("report: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Println("LearnCraft bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
