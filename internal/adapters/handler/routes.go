package handler

import "github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"

// Route is the URL segment under /api and the noun used in messages for a
// Kind.
type Route struct {
	Path string
	Noun string
}

var routes = map[domain.Kind]Route{
	domain.KindComplaint:         {Path: "complaints", Noun: "Complaint"},
	domain.KindNotice:            {Path: "notices", Noun: "Notice"},
	domain.KindMarketplaceItem:   {Path: "marketplace", Noun: "Item"},
	domain.KindLostFoundItem:     {Path: "lost-found", Noun: "Item"},
	domain.KindBloodDonor:        {Path: "blood-donation", Noun: "Donor record"},
	domain.KindBicycle:           {Path: "bicycles", Noun: "Report"},
	domain.KindAnimalReport:      {Path: "animal-welfare", Noun: "Report"},
	domain.KindFacultySuggestion: {Path: "faculty-suggestions", Noun: "Suggestion"},
}

func RouteFor(kind domain.Kind) (Route, bool) {
	r, ok := routes[kind]
	return r, ok
}
