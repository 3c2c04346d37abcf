package services

import (
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/validation"
)

// KindSpec describes how client input becomes a record of one Kind. Decode
// reports every problem it finds; missing required fields are reported on
// their own.
type KindSpec[T any] struct {
	Kind   domain.Kind
	Decode func(f validation.Fields) (T, []string)
}

type complaintRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=hall dining lab academic administration"`
	PostedBy    string `json:"posted_by" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=pending in_progress resolved"`
}

var ComplaintSpec = KindSpec[domain.Complaint]{
	Kind: domain.KindComplaint,
	Decode: func(f validation.Fields) (domain.Complaint, []string) {
		req := complaintRequest{
			Title:       f.Text("title"),
			Description: f.Text("description"),
			Category:    f.Text("category"),
			PostedBy:    f.Text("posted_by"),
			Status:      f.TextOr("status", "pending"),
		}
		if problems := validation.Check(&req); len(problems) > 0 {
			return domain.Complaint{}, validation.Messages(problems)
		}
		return domain.Complaint{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			PostedBy:    req.PostedBy,
			Status:      req.Status,
		}, nil
	},
}

type noticeRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=general academic event urgent"`
	PostedBy    string `json:"posted_by" validate:"required"`
}

var NoticeSpec = KindSpec[domain.Notice]{
	Kind: domain.KindNotice,
	Decode: func(f validation.Fields) (domain.Notice, []string) {
		req := noticeRequest{
			Title:       f.Text("title"),
			Description: f.Text("description"),
			Category:    f.Text("category"),
			PostedBy:    f.Text("posted_by"),
		}
		if problems := validation.Check(&req); len(problems) > 0 {
			return domain.Notice{}, validation.Messages(problems)
		}
		return domain.Notice{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			PostedBy:    req.PostedBy,
		}, nil
	},
}

type marketplaceItemRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,finite,gte=0"`
	Seller      string   `json:"seller" validate:"required"`
	Phone       string   `json:"phone" validate:"required,phone"`
}

var MarketplaceItemSpec = KindSpec[domain.MarketplaceItem]{
	Kind: domain.KindMarketplaceItem,
	Decode: func(f validation.Fields) (domain.MarketplaceItem, []string) {
		req := marketplaceItemRequest{
			Title:       f.Text("title"),
			Description: f.Text("description"),
			Price:       f.Number("price"),
			Seller:      f.Text("seller"),
			Phone:       f.Text("phone"),
		}
		if problems := validation.Check(&req); len(problems) > 0 {
			return domain.MarketplaceItem{}, validation.Messages(problems)
		}
		return domain.MarketplaceItem{
			Title:       req.Title,
			Description: req.Description,
			Price:       *req.Price,
			Seller:      req.Seller,
			Phone:       req.Phone,
		}, nil
	},
}

type lostFoundItemRequest struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description" validate:"required"`
	ItemType      string `json:"item_type" validate:"required,oneof=lost found"`
	Status        string `json:"status" validate:"required,oneof=lost found"`
	Location      string `json:"location" validate:"required"`
	ContactNumber string `json:"contact_number" validate:"required,phone"`
}

var LostFoundItemSpec = KindSpec[domain.LostFoundItem]{
	Kind: domain.KindLostFoundItem,
	Decode: func(f validation.Fields) (domain.LostFoundItem, []string) {
		req := lostFoundItemRequest{
			Title:         f.Text("title"),
			Description:   f.Text("description"),
			ItemType:      f.Text("item_type"),
			Status:        f.TextOr("status", "lost"),
			Location:      f.Text("location"),
			ContactNumber: f.Text("contact_number"),
		}
		if problems := validation.Check(&req); len(problems) > 0 {
			return domain.LostFoundItem{}, validation.Messages(problems)
		}
		return domain.LostFoundItem{
			Title:         req.Title,
			Description:   req.Description,
			ItemType:      req.ItemType,
			Status:        req.Status,
			Location:      req.Location,
			ContactNumber: req.ContactNumber,
		}, nil
	},
}

type bloodDonorRequest struct {
	Name          string `json:"name" validate:"required"`
	BloodType     string `json:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	ContactNumber string `json:"contact_number" validate:"required,phone"`
	Location      string `json:"location" validate:"required"`
	AvailableDate string `json:"available_date" validate:"required,datetime=2006-01-02"`
}

var BloodDonorSpec = KindSpec[domain.BloodDonor]{
	Kind: domain.KindBloodDonor,
	Decode: func(f validation.Fields) (domain.BloodDonor, []string) {
		req := bloodDonorRequest{
			Name:          f.Text("name"),
			BloodType:     f.Text("blood_type"),
			ContactNumber: f.Text("contact_number"),
			Location:      f.Text("location"),
			AvailableDate: f.Text("available_date"),
		}
		if problems := validation.Check(&req); len(problems) > 0 {
			return domain.BloodDonor{}, validation.Messages(problems)
		}
		return domain.BloodDonor{
			Name:          req.Name,
			BloodType:     req.BloodType,
			ContactNumber: req.ContactNumber,
			Location:      req.Location,
			AvailableDate: req.AvailableDate,
		}, nil
	},
}

type bicycleRequest struct {
	Brand         string `json:"brand" validate:"required"`
	Color         string `json:"color" validate:"required"`
	Location      string `json:"location" validate:"required"`
	ContactNumber string `json:"contact_number" validate:"required,phone"`
	Description   string `json:"description"`
}

var BicycleSpec = KindSpec[domain.Bicycle]{
	Kind: domain.KindBicycle,
	Decode: func(f validation.Fields) (domain.Bicycle, []string) {
		req := bicycleRequest{
			Brand:         f.Text("brand"),
			Color:         f.Text("color"),
			Location:      f.Text("location"),
			ContactNumber: f.Text("contact_number"),
			Description:   f.Text("description"),
		}
		if problems := validation.Check(&req); len(problems) > 0 {
			return domain.Bicycle{}, validation.Messages(problems)
		}
		return domain.Bicycle{
			Brand:         req.Brand,
			Color:         req.Color,
			Location:      req.Location,
			ContactNumber: req.ContactNumber,
			Description:   req.Description,
		}, nil
	},
}

type animalReportRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Urgency     string `json:"urgency" validate:"required,oneof=low medium high"`
}

var AnimalReportSpec = KindSpec[domain.AnimalReport]{
	Kind: domain.KindAnimalReport,
	Decode: func(f validation.Fields) (domain.AnimalReport, []string) {
		req := animalReportRequest{
			Title:       f.Text("title"),
			Description: f.Text("description"),
			Location:    f.Text("location"),
			Urgency:     f.Text("urgency"),
		}
		if problems := validation.Check(&req); len(problems) > 0 {
			return domain.AnimalReport{}, validation.Messages(problems)
		}
		return domain.AnimalReport{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			Urgency:     req.Urgency,
		}, nil
	},
}

type facultySuggestionRequest struct {
	Title       string   `json:"title" validate:"required"`
	FacultyName string   `json:"faculty_name" validate:"required"`
	Rating      *float64 `json:"rating" validate:"required,finite,integral,min=1,max=5"`
	Feedback    string   `json:"feedback" validate:"required"`
}

var FacultySuggestionSpec = KindSpec[domain.FacultySuggestion]{
	Kind: domain.KindFacultySuggestion,
	Decode: func(f validation.Fields) (domain.FacultySuggestion, []string) {
		req := facultySuggestionRequest{
			Title:       f.Text("title"),
			FacultyName: f.Text("faculty_name"),
			Rating:      f.Number("rating"),
			Feedback:    f.Text("feedback"),
		}
		if problems := validation.Check(&req); len(problems) > 0 {
			return domain.FacultySuggestion{}, validation.Messages(problems)
		}
		return domain.FacultySuggestion{
			Title:       req.Title,
			FacultyName: req.FacultyName,
			Rating:      int(*req.Rating),
			Feedback:    req.Feedback,
		}, nil
	},
}
