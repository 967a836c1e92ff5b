package domain

import (
	"fmt"

	cron "github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type MaintainStore struct {
	PrimaryRepository StoreMaintainer

	cronScheduler *cron.Cron
}

func (domain *MaintainStore) Run() error {
	if err := domain.PrimaryRepository.Checkpoint(); err != nil {
		return err
	}

	count, err := domain.PrimaryRepository.CountReadings()
	if err != nil {
		return err
	}
	log.WithField("readings", count).Info("Обслуживание хранилища завершено")

	return nil
}

func (domain *MaintainStore) Schedule(spec string) error {
	domain.cronScheduler = cron.New()

	_, err := domain.cronScheduler.AddFunc(spec, func() {
		log.Info("Запуск запланированного обслуживания хранилища")
		if err := domain.Run(); err != nil {
			log.Errorf("Ошибка обслуживания хранилища: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("ошибка при настройке cron-задачи: %w", err)
	}

	domain.cronScheduler.Start()
	log.Infof("Запланировано обслуживание хранилища по расписанию '%s'", spec)

	return nil
}

func (domain *MaintainStore) Shutdown() {
	if domain.cronScheduler != nil {
		<-domain.cronScheduler.Stop().Done()
		log.Info("Cron-планировщик остановлен")
	}
}
