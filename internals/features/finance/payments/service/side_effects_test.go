package service

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	leadmodel "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/admissions/leads/model"
	leadservice "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/admissions/leads/service"
	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/model"
)

func TestSideEffectFromMetadata(t *testing.T) {
	leadID := uuid.New()
	schoolID := uuid.New()

	t.Run("full enrollment intent", func(t *testing.T) {
		in, ok := SideEffectFromMetadata("pi_1", datatypes.JSONMap{
			"intent":    SideEffectIntentEnroll,
			"lead_id":   leadID.String(),
			"school_id": schoolID.String(),
			"program":   "preschool",
		})
		require.True(t, ok)
		assert.Equal(t, "pi_1", in.ProviderPaymentID)
		assert.Equal(t, leadID, in.LeadID)
		require.NotNil(t, in.SchoolID)
		assert.Equal(t, schoolID, *in.SchoolID)
		assert.Equal(t, "preschool", in.Program)
	})

	t.Run("school id optional", func(t *testing.T) {
		in, ok := SideEffectFromMetadata("pi_2", datatypes.JSONMap{
			"intent":  SideEffectIntentEnroll,
			"lead_id": leadID.String(),
		})
		require.True(t, ok)
		assert.Nil(t, in.SchoolID)
	})

	t.Run("nil metadata", func(t *testing.T) {
		_, ok := SideEffectFromMetadata("pi_3", nil)
		assert.False(t, ok)
	})

	t.Run("other intent ignored", func(t *testing.T) {
		_, ok := SideEffectFromMetadata("pi_4", datatypes.JSONMap{
			"intent":  "donation",
			"lead_id": leadID.String(),
		})
		assert.False(t, ok)
	})

	t.Run("malformed lead id ignored", func(t *testing.T) {
		_, ok := SideEffectFromMetadata("pi_5", datatypes.JSONMap{
			"intent":  SideEffectIntentEnroll,
			"lead_id": "not-a-uuid",
		})
		assert.False(t, ok)
	})

	t.Run("missing lead id ignored", func(t *testing.T) {
		_, ok := SideEffectFromMetadata("pi_6", datatypes.JSONMap{
			"intent": SideEffectIntentEnroll,
		})
		assert.False(t, ok)
	})
}

// Requires TEST_DATABASE_URL; the exactly-once guarantee lives in the
// composite unique index, so it can only be proven against a real database.
func TestSideEffectDispatcherApplyExactlyOnce(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&leadmodel.Lead{}, &leadmodel.Enrollment{}, &model.PaymentSideEffect{}))

	lead := leadmodel.Lead{
		LeadID:            uuid.New(),
		LeadParentName:    "Dina",
		LeadChildName:     "Aisha",
		LeadStatus:        leadmodel.LeadStatusToured,
		LeadPaymentStatus: leadmodel.LeadPaymentStatusUnpaid,
	}
	require.NoError(t, db.Create(&lead).Error)

	paymentID := "ord-" + uuid.NewString()
	t.Cleanup(func() {
		db.Exec("DELETE FROM payment_side_effects WHERE side_effect_provider_payment_id = ?", paymentID)
		db.Exec("DELETE FROM enrollments WHERE enrollment_lead_id = ?", lead.LeadID)
		db.Exec("DELETE FROM leads WHERE lead_id = ?", lead.LeadID)
	})

	d := NewSideEffectDispatcher(db, leadservice.NewLeadService())
	in := SideEffectInput{
		ProviderPaymentID: paymentID,
		LeadID:            lead.LeadID,
		Program:           "preschool",
	}

	first, applied, err := d.Apply(context.Background(), in)
	require.NoError(t, err)
	require.True(t, applied)
	require.NotEmpty(t, first["enrollment_id"])

	second, applied, err := d.Apply(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, applied, "duplicate claim must replay, not re-apply")
	assert.Equal(t, first["enrollment_id"], second["enrollment_id"])
	assert.Equal(t, lead.LeadID.String(), second["lead_id"])

	var enrollments int64
	require.NoError(t, db.Model(&leadmodel.Enrollment{}).
		Where("enrollment_lead_id = ?", lead.LeadID).
		Count(&enrollments).Error)
	assert.EqualValues(t, 1, enrollments)

	var got leadmodel.Lead
	require.NoError(t, db.First(&got, "lead_id = ?", lead.LeadID).Error)
	assert.Equal(t, leadmodel.LeadStatusRegistered, got.LeadStatus)
	assert.Equal(t, leadmodel.LeadPaymentStatusPaid, got.LeadPaymentStatus)
	assert.Equal(t, leadScoreRegistered, got.LeadScore)
}
