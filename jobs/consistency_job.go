package jobs

import (
	"log"
	"math"

	"github.com/otienodev/course_market/database"
	"github.com/otienodev/course_market/models"
)

const averageDriftTolerance = 1e-9

// ReconcileEngagementState is the periodic safety net behind the
// transactional writes: it re-derives any course average that has
// drifted from the stored ratings and drops engagement rows whose
// course or user no longer exists.
func ReconcileEngagementState() {
	log.Println("Running job: ReconcileEngagementState...")

	healed := reconcileAverages()
	orphans := removeOrphanedRows()

	if healed == 0 && orphans == 0 {
		log.Println("Engagement state is consistent.")
		return
	}
	log.Printf("Reconciled engagement state: %d average(s) healed, %d orphaned row(s) removed.", healed, orphans)
}

func reconcileAverages() int {
	var courses []models.Course
	if err := database.DB.Find(&courses).Error; err != nil {
		log.Printf("Error loading courses for reconciliation: %v", err)
		return 0
	}

	healed := 0
	for _, course := range courses {
		var average float64
		err := database.DB.Model(&models.Rating{}).
			Where("course_id = ?", course.ID).
			Select("COALESCE(AVG(value), 0)").
			Scan(&average).Error
		if err != nil {
			log.Printf("Error recomputing average for course %s: %v", course.ID, err)
			continue
		}

		if math.Abs(course.AverageRating-average) <= averageDriftTolerance {
			continue
		}

		err = database.DB.Model(&models.Course{}).
			Where("id = ?", course.ID).
			Update("average_rating", average).Error
		if err != nil {
			log.Printf("Error healing average for course %s: %v", course.ID, err)
			continue
		}
		healed++
	}
	return healed
}

func removeOrphanedRows() int {
	removed := 0

	courseIDs := database.DB.Model(&models.Course{}).Select("id")
	userIDs := database.DB.Model(&models.User{}).Select("id")

	for _, target := range []interface{}{
		&models.Enrollment{}, &models.Rating{}, &models.Review{},
	} {
		result := database.DB.
			Where("course_id NOT IN (?)", courseIDs).
			Or("user_id NOT IN (?)", userIDs).
			Delete(target)
		if result.Error != nil {
			log.Printf("Error removing orphaned rows: %v", result.Error)
			continue
		}
		removed += int(result.RowsAffected)
	}
	return removed
}
