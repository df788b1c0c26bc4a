package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/slot_calendar/internal/controller/render"
	"github.com/Freeeeeet/slot_calendar/internal/model"
	"github.com/Freeeeeet/slot_calendar/internal/service"
)

func main() {
	week := flag.String("week", "", "любая дата недели YYYY-MM-DD (по умолчанию текущая)")
	out := flag.String("out", "week.png", "файл для сохранения")
	flag.Parse()

	now := time.Now()
	anchor := model.NormalizeDate(now)
	if *week != "" {
		parsed, err := model.ParseDate(*week)
		if err != nil {
			fmt.Printf("Неверная дата недели: %v\n", err)
			os.Exit(1)
		}
		anchor = parsed
	}
	weekStart, _ := model.WeekBounds(anchor)

	// Тестовый шаблон: не больше двух слотов в день
	slots := []*model.RecurringSlot{
		{ID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
		{ID: 2, DayOfWeek: 1, StartTime: "14:00", EndTime: "15:30"},
		{ID: 3, DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00"},
		{ID: 4, DayOfWeek: 3, StartTime: "09:00", EndTime: "10:00"},
		{ID: 5, DayOfWeek: 3, StartTime: "15:00", EndTime: "16:00"},
		{ID: 6, DayOfWeek: 5, StartTime: "11:00", EndTime: "12:00"},
	}

	// Исключения на эту неделю: перенос во вторник и отмена в пятницу
	exceptions := []*model.SlotException{
		model.NewEditedException(3, weekStart.AddDate(0, 0, 2), "12:00", "13:30"),
		model.NewDeletedException(6, weekStart.AddDate(0, 0, 5)),
	}
	for i, ex := range exceptions {
		ex.ID = int64(i + 1)
	}

	resolved := service.ResolveWeekFrom(anchor, slots, exceptions)

	imageData, err := render.WeekImage(resolved, now)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение сохранено в %s\n", *out)
	fmt.Printf("📅 Период: %s - %s\n", resolved.WeekStart, resolved.WeekEnd)
	fmt.Printf("📊 Вхождений: %d\n", resolved.OccurrenceCount())
}
