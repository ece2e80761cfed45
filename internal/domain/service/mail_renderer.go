package service

import (
	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/guidance"
)

// AlertMailData carries everything the daily alert template binds.
type AlertMailData struct {
	Region          entity.RegionLabel
	DailyMax        entity.UVReading
	Current         entity.UVReading
	Advisory        guidance.Advisory
	UnsubscribeLink string
}

// ConfirmationMailData carries the registration confirmation bindings.
type ConfirmationMailData struct {
	Region          entity.RegionLabel
	Latitude        float64
	Longitude       float64
	UnsubscribeLink string
}

// MailRenderer renders structured data into mail bodies. It is a pure
// function over its inputs; template parse problems surface at construction
// time, not per call.
type MailRenderer interface {
	RenderAlert(data AlertMailData) (html string, err error)
	RenderConfirmation(data ConfirmationMailData) (text string, err error)
}
