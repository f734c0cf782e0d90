package handler

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
)

// Response bodies. Field names follow the public API of the frontend.

type userResp struct {
	ID               uint64     `json:"id"`
	Username         string     `json:"username"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Email            string     `json:"email"`
	Phone            *string    `json:"phone"`
	Enabled          bool       `json:"enabled"`
	ProfileImagePath *string    `json:"profileImagePath"`
	Type             model.Role `json:"type"`
}

func toUser(u model.User) userResp {
	return userResp{
		ID:               u.ID,
		Username:         u.Username,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		Phone:            u.Phone,
		Enabled:          u.Enabled,
		ProfileImagePath: u.ProfileImagePath,
		Type:             u.Role,
	}
}

type spaceResp struct {
	ID             uint64           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Capacity       int              `json:"capacity"`
	PhotoPrincipal string           `json:"photoPrincipal"`
	Gallery        []string         `json:"gallery"`
	Active         bool             `json:"isActive"`
	Type           model.SpaceType  `json:"type"`
	PricePerDay    *decimal.Decimal `json:"prixParJour,omitempty"`
	Amenities      []string         `json:"amenities,omitempty"`
}

func toSpace(s model.Space) spaceResp {
	r := spaceResp{
		ID:             s.ID,
		Name:           s.Name,
		Description:    s.Description,
		Capacity:       s.Capacity,
		PhotoPrincipal: s.PhotoPrincipal,
		Gallery:        s.Gallery,
		Active:         s.Active,
		Type:           s.Type,
	}
	if r.Gallery == nil {
		r.Gallery = []string{}
	}
	if s.Private != nil {
		price := s.Private.PricePerDay
		r.PricePerDay = &price
		r.Amenities = s.Private.Amenities
		if r.Amenities == nil {
			r.Amenities = []string{}
		}
	}
	return r
}

type reservationResp struct {
	ID            uint64                  `json:"id"`
	UserID        uint64                  `json:"userId"`
	UserFirstName string                  `json:"userFirstName"`
	UserLastName  string                  `json:"userLastName"`
	UserEmail     string                  `json:"userEmail"`
	UserPhone     *string                 `json:"userPhone"`
	SpaceID       uint64                  `json:"espaceId"`
	SpaceName     string                  `json:"espaceName"`
	SpaceType     model.SpaceType         `json:"espaceType"`
	PaymentAmount *decimal.Decimal        `json:"paiementMontant"`
	PaymentValid  *bool                   `json:"paiementValide"`
	Start         model.DateTime          `json:"dateDebut"`
	End           model.DateTime          `json:"dateFin"`
	Status        model.ReservationStatus `json:"statut"`
	PaymentID     *uint64                 `json:"paiementId"`
}

func toReservation(d model.ReservationDetail) reservationResp {
	return reservationResp{
		ID:            d.ID,
		UserID:        d.UserID,
		UserFirstName: d.UserFirstName,
		UserLastName:  d.UserLastName,
		UserEmail:     d.UserEmail,
		UserPhone:     d.UserPhone,
		SpaceID:       d.SpaceID,
		SpaceName:     d.SpaceName,
		SpaceType:     d.SpaceType,
		PaymentAmount: d.PaymentAmount,
		PaymentValid:  d.PaymentValid(),
		Start:         model.NewDateTime(d.Start),
		End:           model.NewDateTime(d.End),
		Status:        d.Status,
		PaymentID:     d.PaymentID,
	}
}

type subscriptionResp struct {
	ID        uint64                 `json:"id"`
	Type      model.SubscriptionType `json:"type"`
	Price     decimal.Decimal        `json:"prix"`
	Start     model.Date             `json:"dateDebut"`
	End       model.Date             `json:"dateFin"`
	UserID    uint64                 `json:"userId"`
	UserEmail string                 `json:"userEmail"`
	SpaceID   uint64                 `json:"espaceOuvertId"`
	SpaceName string                 `json:"espaceOuvertName"`
	PaymentID *uint64                `json:"paiementId"`
}

func toSubscription(d model.SubscriptionDetail) subscriptionResp {
	return subscriptionResp{
		ID:        d.ID,
		Type:      d.Type,
		Price:     d.Price,
		Start:     d.Start,
		End:       d.End,
		UserID:    d.UserID,
		UserEmail: d.UserEmail,
		SpaceID:   d.SpaceID,
		SpaceName: d.SpaceName,
		PaymentID: d.PaymentID,
	}
}

type participantResp struct {
	UserID           uint64         `json:"userId"`
	UserFirstName    string         `json:"userFirstName"`
	UserLastName     string         `json:"userLastName"`
	UserEmail        string         `json:"userEmail"`
	UserPhone        *string        `json:"userPhone"`
	RegistrationDate model.DateTime `json:"registrationDate"`
}

type eventResp struct {
	ID              uint64            `json:"id"`
	Title           string            `json:"titre"`
	Description     string            `json:"description"`
	StartDate       model.DateTime    `json:"startDate"`
	EndDate         model.DateTime    `json:"endDate"`
	Price           decimal.Decimal   `json:"price"`
	MaxParticipants int               `json:"maxParticipants"`
	Active          bool              `json:"isActive"`
	Participants    []participantResp `json:"participants"`
	SpaceID         uint64            `json:"espaceId"`
	SpaceName       string            `json:"espaceName"`
}

func toEvent(e model.Event) eventResp {
	r := eventResp{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		StartDate:       model.NewDateTime(e.StartDate),
		EndDate:         model.NewDateTime(e.EndDate),
		Price:           e.Price,
		MaxParticipants: e.MaxParticipants,
		Active:          e.Active,
		Participants:    make([]participantResp, 0, len(e.Participants)),
		SpaceID:         e.SpaceID,
		SpaceName:       e.SpaceName,
	}
	for _, p := range e.Participants {
		r.Participants = append(r.Participants, participantResp{
			UserID:           p.UserID,
			UserFirstName:    p.FirstName,
			UserLastName:     p.LastName,
			UserEmail:        p.Email,
			UserPhone:        p.Phone,
			RegistrationDate: model.NewDateTime(p.RegisteredAt),
		})
	}
	return r
}

type paymentResp struct {
	ID             uint64              `json:"id"`
	Type           model.PaymentType   `json:"type"`
	Amount         decimal.Decimal     `json:"montant"`
	Date           model.DateTime      `json:"date"`
	Status         model.PaymentStatus `json:"statut"`
	ReservationID  *uint64             `json:"reservationId"`
	SubscriptionID *uint64             `json:"abonnementId"`
	EventID        *uint64             `json:"evenementId"`
	UserID         *uint64             `json:"userId"`
}

func toPayment(p model.Payment) paymentResp {
	return paymentResp{
		ID:             p.ID,
		Type:           p.Type,
		Amount:         p.Amount,
		Date:           model.NewDateTime(p.Date),
		Status:         p.Status,
		ReservationID:  p.ReservationID,
		SubscriptionID: p.SubscriptionID,
		EventID:        p.EventID,
		UserID:         p.UserID,
	}
}

type invoiceResp struct {
	ID             uint64         `json:"id"`
	PaymentID      uint64         `json:"paiementId"`
	PDFURL         string         `json:"pdfUrl"`
	SentAt         model.DateTime `json:"dateEnvoi"`
	RecipientEmail string         `json:"emailDestinataire"`
}

func toInvoice(inv model.Invoice) invoiceResp {
	return invoiceResp{
		ID:             inv.ID,
		PaymentID:      inv.PaymentID,
		PDFURL:         inv.PDFURL,
		SentAt:         model.NewDateTime(inv.SentAt),
		RecipientEmail: inv.RecipientEmail,
	}
}

type unavailabilityResp struct {
	ID        uint64         `json:"id"`
	SpaceID   uint64         `json:"espaceId"`
	SpaceName string         `json:"espaceName"`
	Start     model.DateTime `json:"dateDebut"`
	End       model.DateTime `json:"dateFin"`
	Reason    string         `json:"raison"`
}

func toUnavailability(u model.Unavailability) unavailabilityResp {
	return unavailabilityResp{
		ID:        u.ID,
		SpaceID:   u.SpaceID,
		SpaceName: u.SpaceName,
		Start:     model.NewDateTime(u.Start),
		End:       model.NewDateTime(u.End),
		Reason:    u.Reason,
	}
}

type reviewResp struct {
	ID            uint64          `json:"id"`
	UserID        uint64          `json:"userId"`
	UserUsername  string          `json:"userUsername"`
	UserFirstName string          `json:"userFirstName"`
	UserLastName  string          `json:"userLastName"`
	SpaceID       uint64          `json:"espaceId"`
	SpaceName     string          `json:"espaceName"`
	SpaceType     model.SpaceType `json:"espaceType"`
	Rating        int             `json:"rating"`
	Comment       string          `json:"commentaire"`
	Date          model.Date      `json:"date"`
}

func toReview(r model.Review) reviewResp {
	return reviewResp{
		ID:            r.ID,
		UserID:        r.UserID,
		UserUsername:  r.UserUsername,
		UserFirstName: r.UserFirstName,
		UserLastName:  r.UserLastName,
		SpaceID:       r.SpaceID,
		SpaceName:     r.SpaceName,
		SpaceType:     r.SpaceType,
		Rating:        r.Rating,
		Comment:       r.Comment,
		Date:          r.Date,
	}
}

// mapList converts a slice, never returning nil so lists encode as [].
func mapList[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
