package handlers

import (
	"time"

	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/timezone"
)

func locationFromProvider(provider *models.Provider) *time.Location {
	if provider != nil {
		return timezone.Location(provider.Timezone)
	}
	return timezone.Location("")
}

func parseDateTimeInProvider(
	provider *models.Provider,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		locationFromProvider(provider),
	)
}
