package providers

import "github.com/jackc/pgx/v5/pgxpool"

type Providers struct {
	FormTemplateProvider   *FormTemplateProvider
	AppointmentProvider    *AppointmentProvider
	ArtistProvider         *ArtistProvider
	ReconciliationProvider *ReconciliationProvider
}

func New(db *pgxpool.Pool) *Providers {
	return &Providers{
		FormTemplateProvider:   NewFormTemplateProvider(db),
		AppointmentProvider:    NewAppointmentProvider(db),
		ArtistProvider:         NewArtistProvider(db),
		ReconciliationProvider: NewReconciliationProvider(db),
	}
}
