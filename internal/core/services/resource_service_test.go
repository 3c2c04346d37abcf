package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/services"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/validation"
	"github.com/AchilleasB/campus-hub/campus-service/internal/mocks"
)

var (
	owner   = domain.Caller{ID: "student_1", Role: domain.RoleStudent}
	other   = domain.Caller{ID: "student_2", Role: domain.RoleStudent}
	admin   = domain.Caller{ID: "admin_1", Role: domain.RoleAdmin}
	nobody  = domain.Caller{}
	fixedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

// sequence returns an id generator yielding ids in order.
func sequence(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func fixedClock() time.Time { return fixedAt }

func validComplaint() validation.Fields {
	return validation.Fields{
		"title":       "Broken fan",
		"description": "Room 204 fan does not turn on",
		"category":    "hall",
		"posted_by":   "Raj Kumar",
	}
}

func newComplaintService(repo *mocks.MockRecordRepository[domain.Complaint, *domain.Complaint], ids ...string) *services.ResourceService[domain.Complaint, *domain.Complaint] {
	if len(ids) == 0 {
		ids = []string{"id_aaaaaaaaa_1"}
	}
	return services.NewResourceService[domain.Complaint, *domain.Complaint](
		services.ComplaintSpec,
		repo,
		services.WithIDGenerator(sequence(ids...)),
		services.WithClock(fixedClock),
	)
}

func TestResourceService_Create(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	svc := newComplaintService(repo)

	rec, err := svc.Create(context.Background(), validComplaint(), owner)
	require.NoError(t, err)

	assert.Equal(t, "id_aaaaaaaaa_1", rec.ID)
	assert.Equal(t, "student_1", rec.OwnerID)
	assert.Equal(t, fixedAt, rec.CreatedAt)
	assert.Equal(t, fixedAt, rec.UpdatedAt)
	assert.Equal(t, "pending", rec.Status)
	assert.Equal(t, domain.KindComplaint, svc.Kind())
	assert.Equal(t, 1, repo.Len())
}

func TestResourceService_Create_Validation(t *testing.T) {
	tests := []struct {
		name     string
		fields   validation.Fields
		problems []string
	}{
		{
			name:     "missing_required_fields",
			fields:   validation.Fields{"title": "Broken fan", "description": "  "},
			problems: []string{"description is required", "category is required", "posted_by is required"},
		},
		{
			name: "unknown_category",
			fields: validation.Fields{
				"title": "t", "description": "d", "category": "parking", "posted_by": "p",
			},
			problems: []string{"category must be one of: hall, dining, lab, academic, administration"},
		},
		{
			name: "unknown_status",
			fields: validation.Fields{
				"title": "t", "description": "d", "category": "lab", "posted_by": "p", "status": "closed",
			},
			problems: []string{"status must be one of: pending, in_progress, resolved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
			svc := newComplaintService(repo)

			_, err := svc.Create(context.Background(), tt.fields, owner)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.problems, verr.Problems)
			assert.Empty(t, repo.InsertCalls, "store must not be touched")
		})
	}
}

func TestResourceService_Create_RequiresCaller(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	svc := newComplaintService(repo)

	_, err := svc.Create(context.Background(), validComplaint(), nobody)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Empty(t, repo.InsertCalls)
}

func TestResourceService_Create_RetriesOnceOnCollision(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	repo.InsertErrors = []error{domain.ErrDuplicateKey}
	svc := newComplaintService(repo, "id_first_1", "id_second_2")

	rec, err := svc.Create(context.Background(), validComplaint(), owner)
	require.NoError(t, err)

	assert.Equal(t, "id_second_2", rec.ID)
	require.Len(t, repo.InsertCalls, 2)
	assert.Equal(t, "id_first_1", repo.InsertCalls[0].ID)
}

func TestResourceService_Create_SecondCollisionFails(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	repo.InsertErrors = []error{domain.ErrDuplicateKey, domain.ErrDuplicateKey}
	svc := newComplaintService(repo, "id_first_1", "id_second_2", "id_third_3")

	_, err := svc.Create(context.Background(), validComplaint(), owner)
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	assert.Len(t, repo.InsertCalls, 2)
}

func TestResourceService_Create_StoreUnavailableIsNotRetried(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	repo.InsertErrors = []error{domain.ErrStoreUnavailable}
	svc := newComplaintService(repo)

	_, err := svc.Create(context.Background(), validComplaint(), owner)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Len(t, repo.InsertCalls, 1)
}

func TestResourceService_List_NewestFirst(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	for i := 0; i < 3; i++ {
		c := domain.Complaint{Title: fmt.Sprintf("c%d", i)}
		c.ID = fmt.Sprintf("id_%d", i)
		c.CreatedAt = fixedAt.Add(time.Duration(i) * time.Minute)
		repo.Seed(c)
	}
	svc := newComplaintService(repo)

	recs, err := svc.List(context.Background())
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, []string{"id_2", "id_1", "id_0"}, []string{recs[0].ID, recs[1].ID, recs[2].ID})
}

func TestResourceService_List_Empty(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	svc := newComplaintService(repo)

	recs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestResourceService_List_StoreUnavailable(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	repo.ListError = domain.ErrStoreUnavailable
	svc := newComplaintService(repo)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestResourceService_Delete(t *testing.T) {
	tests := []struct {
		name        string
		caller      domain.Caller
		recordID    string
		expectErr   error
		expectGone  bool
		deleteCalls int
	}{
		{"owner_deletes_own_record", owner, "id_aaaaaaaaa_1", nil, true, 1},
		{"admin_deletes_any_record", admin, "id_aaaaaaaaa_1", nil, true, 1},
		{"other_student_is_forbidden", other, "id_aaaaaaaaa_1", domain.ErrForbidden, false, 0},
		{"missing_record_is_not_found", owner, "id_missing", domain.ErrNotFound, false, 0},
		{"missing_record_is_not_found_before_policy", other, "id_missing", domain.ErrNotFound, false, 0},
		{"anonymous_caller", nobody, "id_aaaaaaaaa_1", domain.ErrUnauthenticated, false, 0},
		{"admin_role_without_id", domain.Caller{Role: domain.RoleAdmin}, "id_aaaaaaaaa_1", domain.ErrUnauthenticated, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
			svc := newComplaintService(repo)
			_, err := svc.Create(context.Background(), validComplaint(), owner)
			require.NoError(t, err)

			err = svc.Delete(context.Background(), tt.recordID, tt.caller)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, repo.DeleteCalls, tt.deleteCalls)
			assert.Equal(t, tt.expectGone, repo.Len() == 0)
		})
	}
}

func TestResourceService_Delete_SecondDeleteIsNotFound(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	svc := newComplaintService(repo)
	rec, err := svc.Create(context.Background(), validComplaint(), owner)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), rec.ID, owner))
	assert.ErrorIs(t, svc.Delete(context.Background(), rec.ID, owner), domain.ErrNotFound)
}

func TestResourceService_Delete_LostRaceIsNotFound(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	svc := newComplaintService(repo)
	rec, err := svc.Create(context.Background(), validComplaint(), owner)
	require.NoError(t, err)

	// another caller removed the row between the lookup and the delete
	repo.DeleteError = domain.ErrNotFound

	assert.ErrorIs(t, svc.Delete(context.Background(), rec.ID, admin), domain.ErrNotFound)
}

// ownershipCase runs the create/delete ownership rules against one kind.
func ownershipCase[T any, P domain.Entity[T]](t *testing.T, spec services.KindSpec[T], fields validation.Fields) {
	t.Run(string(spec.Kind), func(t *testing.T) {
		repo := mocks.NewMockRecordRepository[T, P]()
		svc := services.NewResourceService[T, P](spec, repo,
			services.WithIDGenerator(sequence("id_one_1", "id_two_2")),
			services.WithClock(fixedClock))
		ctx := context.Background()

		first, err := svc.Create(ctx, fields, owner)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, P(first).Metadata().OwnerID)

		second, err := svc.Create(ctx, fields, owner)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(ctx, P(first).Metadata().ID, other), domain.ErrForbidden)
		assert.NoError(t, svc.Delete(ctx, P(first).Metadata().ID, owner))
		assert.NoError(t, svc.Delete(ctx, P(second).Metadata().ID, admin))
		assert.Zero(t, repo.Len())
	})
}

func TestResourceService_OwnershipAppliesToEveryKind(t *testing.T) {
	ownershipCase[domain.Complaint](t, services.ComplaintSpec, validComplaint())
	ownershipCase[domain.Notice](t, services.NoticeSpec, validation.Fields{
		"title": "Exam schedule", "description": "Finals start in May", "category": "academic", "posted_by": "Registrar",
	})
	ownershipCase[domain.MarketplaceItem](t, services.MarketplaceItemSpec, validation.Fields{
		"title": "Calculus book", "description": "Good condition", "price": 250.0, "seller": "Priya", "phone": "9876543212",
	})
	ownershipCase[domain.LostFoundItem](t, services.LostFoundItemSpec, validation.Fields{
		"title": "Wallet", "description": "Black leather", "item_type": "lost", "location": "Library", "contact_number": "9876543213",
	})
	ownershipCase[domain.BloodDonor](t, services.BloodDonorSpec, validation.Fields{
		"name": "Amit", "blood_type": "O+", "contact_number": "9876543213", "location": "Hall 3", "available_date": "2024-04-01",
	})
	ownershipCase[domain.Bicycle](t, services.BicycleSpec, validation.Fields{
		"brand": "Hero", "color": "red", "location": "Gate 2", "contact_number": "9876543214",
	})
	ownershipCase[domain.AnimalReport](t, services.AnimalReportSpec, validation.Fields{
		"title": "Injured dog", "description": "Limping near canteen", "location": "Canteen", "urgency": "high",
	})
	ownershipCase[domain.FacultySuggestion](t, services.FacultySuggestionSpec, validation.Fields{
		"title": "Great lectures", "faculty_name": "Dr. Rao", "rating": 5.0, "feedback": "Clear explanations",
	})
}

func TestKindSpecs_Decode(t *testing.T) {
	t.Run("marketplace_price_from_string", func(t *testing.T) {
		item, problems := services.MarketplaceItemSpec.Decode(validation.Fields{
			"title": "Lamp", "description": "Desk lamp", "price": "120.50", "seller": "Neha", "phone": "+91 98765 43214",
		})
		assert.Empty(t, problems)
		assert.Equal(t, 120.5, item.Price)
	})

	t.Run("marketplace_negative_price", func(t *testing.T) {
		_, problems := services.MarketplaceItemSpec.Decode(validation.Fields{
			"title": "Lamp", "description": "Desk lamp", "price": -3.0, "seller": "Neha", "phone": "9876543214",
		})
		assert.Equal(t, []string{"price must not be negative"}, problems)
	})

	t.Run("lost_found_status_defaults_to_lost", func(t *testing.T) {
		item, problems := services.LostFoundItemSpec.Decode(validation.Fields{
			"title": "Keys", "description": "Bike keys", "item_type": "found", "location": "Gym", "contact_number": "9876543213",
		})
		assert.Empty(t, problems)
		assert.Equal(t, "lost", item.Status)
		assert.Equal(t, "found", item.ItemType)
	})

	t.Run("blood_donor_reports_every_problem", func(t *testing.T) {
		_, problems := services.BloodDonorSpec.Decode(validation.Fields{
			"name": "Amit", "blood_type": "C+", "contact_number": "12", "location": "Hall", "available_date": "tomorrow",
		})
		assert.Len(t, problems, 3)
	})

	t.Run("animal_report_urgency", func(t *testing.T) {
		_, problems := services.AnimalReportSpec.Decode(validation.Fields{
			"title": "Cat", "description": "Stuck", "location": "Roof", "urgency": "extreme",
		})
		assert.Equal(t, []string{"urgency must be one of: low, medium, high"}, problems)
	})

	t.Run("faculty_rating_out_of_range", func(t *testing.T) {
		_, problems := services.FacultySuggestionSpec.Decode(validation.Fields{
			"title": "t", "faculty_name": "f", "rating": 7.0, "feedback": "x",
		})
		assert.Equal(t, []string{"rating must be at most 5"}, problems)
	})

	t.Run("faculty_rating_must_be_whole", func(t *testing.T) {
		_, problems := services.FacultySuggestionSpec.Decode(validation.Fields{
			"title": "t", "faculty_name": "f", "rating": json.Number("2.5"), "feedback": "x",
		})
		assert.Equal(t, []string{"rating must be a whole number"}, problems)
	})

	t.Run("marketplace_price_checks", func(t *testing.T) {
		base := func(price any) validation.Fields {
			return validation.Fields{
				"title": "Lamp", "description": "Desk lamp", "price": price, "seller": "Raj", "phone": "9876543210",
			}
		}

		item, problems := services.MarketplaceItemSpec.Decode(base("0"))
		assert.Empty(t, problems)
		assert.Zero(t, item.Price)

		_, problems = services.MarketplaceItemSpec.Decode(base(-1.0))
		assert.Equal(t, []string{"price must not be negative"}, problems)

		_, problems = services.MarketplaceItemSpec.Decode(base("cheap"))
		assert.Equal(t, []string{"price must be a number"}, problems)

		_, problems = services.MarketplaceItemSpec.Decode(base(nil))
		assert.Equal(t, []string{"price is required"}, problems)
	})

	t.Run("bicycle_description_optional", func(t *testing.T) {
		b, problems := services.BicycleSpec.Decode(validation.Fields{
			"brand": "Atlas", "color": "blue", "location": "Hostel", "contact_number": "9876543210",
		})
		assert.Empty(t, problems)
		assert.Empty(t, b.Description)
	})
}

func TestResourceService_WrapsStoreErrors(t *testing.T) {
	repo := mocks.NewMockRecordRepository[domain.Complaint, *domain.Complaint]()
	repo.GetError = fmt.Errorf("get: %w", domain.ErrStoreUnavailable)
	svc := newComplaintService(repo)

	err := svc.Delete(context.Background(), "id_x", admin)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}
