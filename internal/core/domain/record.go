package domain

import "time"

// Kind names one of the campus resource types that share the generic
// create/list/delete contract.
type Kind string

const (
	KindComplaint         Kind = "complaint"
	KindNotice            Kind = "notice"
	KindMarketplaceItem   Kind = "marketplace_item"
	KindLostFoundItem     Kind = "lost_found_item"
	KindBloodDonor        Kind = "blood_donor"
	KindBicycle           Kind = "bicycle"
	KindAnimalReport      Kind = "animal_report"
	KindFacultySuggestion Kind = "faculty_suggestion"
)

// Kinds lists every resource kind in route order.
var Kinds = []Kind{
	KindComplaint,
	KindNotice,
	KindMarketplaceItem,
	KindLostFoundItem,
	KindBloodDonor,
	KindBicycle,
	KindAnimalReport,
	KindFacultySuggestion,
}

// Meta holds the attributes every record carries. OwnerID is persisted and
// serialized as user_id.
type Meta struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (m *Meta) Metadata() *Meta { return m }

// Entity is satisfied by a pointer to any record struct embedding Meta.
type Entity[T any] interface {
	*T
	Metadata() *Meta
}

type Complaint struct {
	Meta
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
	PostedBy    string `json:"posted_by" db:"posted_by"`
	Status      string `json:"status" db:"status"`
}

type Notice struct {
	Meta
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
	PostedBy    string `json:"posted_by" db:"posted_by"`
}

type MarketplaceItem struct {
	Meta
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Seller      string  `json:"seller" db:"seller"`
	Phone       string  `json:"phone" db:"phone"`
}

type LostFoundItem struct {
	Meta
	Title         string `json:"title" db:"title"`
	Description   string `json:"description" db:"description"`
	ItemType      string `json:"item_type" db:"item_type"`
	Status        string `json:"status" db:"status"`
	Location      string `json:"location" db:"location"`
	ContactNumber string `json:"contact_number" db:"contact_number"`
}

type BloodDonor struct {
	Meta
	Name          string `json:"name" db:"name"`
	BloodType     string `json:"blood_type" db:"blood_type"`
	ContactNumber string `json:"contact_number" db:"contact_number"`
	Location      string `json:"location" db:"location"`
	AvailableDate string `json:"available_date" db:"available_date"`
}

type Bicycle struct {
	Meta
	Brand         string `json:"brand" db:"brand"`
	Color         string `json:"color" db:"color"`
	Location      string `json:"location" db:"location"`
	ContactNumber string `json:"contact_number" db:"contact_number"`
	Description   string `json:"description" db:"description"`
}

type AnimalReport struct {
	Meta
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Location    string `json:"location" db:"location"`
	Urgency     string `json:"urgency" db:"urgency"`
}

type FacultySuggestion struct {
	Meta
	Title       string `json:"title" db:"title"`
	FacultyName string `json:"faculty_name" db:"faculty_name"`
	Rating      int    `json:"rating" db:"rating"`
	Feedback    string `json:"feedback" db:"feedback"`
}
