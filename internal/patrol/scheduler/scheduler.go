// Package scheduler 周期性物化巡检任务：每天扫描启用中的计划，
// 到期且当日尚无任务的计划走与计划保存相同的激活路径生成任务。
package scheduler

import (
	"context"
	"time"

	"github.com/fieldray/patrol/internal/patrol/entity"
	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/fieldray/patrol/internal/patrol/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler 巡检任务排程器
type Scheduler struct {
	planSvc  *service.PlanService
	planRepo *repository.PlanRepository
	logger   *zap.Logger
	cron     *cron.Cron
}

// New 创建排程器
func New(planSvc *service.PlanService, planRepo *repository.PlanRepository, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		planSvc:  planSvc,
		planRepo: planRepo,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start 启动排程器，每天 00:05 执行一次扫描
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("5 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.RunOnce(ctx, time.Now())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Task scheduler started")
	return nil
}

// Stop 停止排程器，等待进行中的扫描结束
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Task scheduler stopped")
}

// RunOnce 扫描一轮：为到期且当日尚无任务的启用计划生成任务。
// 激活路径本身按 (计划, 日期) 幂等，重复扫描不会产生重复任务。
func (s *Scheduler) RunOnce(ctx context.Context, date time.Time) {
	plans, err := s.planRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("List active plans failed", zap.Error(err))
		return
	}

	created := 0
	for i := range plans {
		if !IsDueOn(&plans[i], date) {
			continue
		}
		task, err := s.planSvc.ActivateForDate(ctx, &plans[i], date)
		if err != nil {
			s.logger.Error("Activate plan failed",
				zap.String("plan_id", plans[i].ID),
				zap.Error(err))
			continue
		}
		if task != nil {
			created++
		}
	}

	s.logger.Info("Scheduler scan finished",
		zap.Int("plans", len(plans)),
		zap.Int("tasks_created", created))
}

// IsDueOn 判断计划在指定日期是否到期：日期落在计划窗口内，且命中
// 频率网格（daily 每天；weekly 与开始日期同星期几；monthly 与开始
// 日期同号数，号数超出当月天数时落到月末）。
func IsDueOn(plan *entity.Plan, date time.Time) bool {
	day := dateOnly(date)
	start := dateOnly(plan.StartDate)

	if day.Before(start) {
		return false
	}
	if plan.EndDate != nil && day.After(dateOnly(*plan.EndDate)) {
		return false
	}

	switch plan.Frequency {
	case entity.FrequencyDaily:
		return true
	case entity.FrequencyWeekly:
		return day.Weekday() == start.Weekday()
	case entity.FrequencyMonthly:
		if day.Day() == start.Day() {
			return true
		}
		// 开始日期是 29/30/31 号而当月没有这一天时，落到月末
		lastDay := day.AddDate(0, 0, 1).Day() == 1
		return lastDay && start.Day() > day.Day()
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
