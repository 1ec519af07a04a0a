package handlers

import (
	"testing"

	"crm-online/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCompanyOrdering(t *testing.T) {
	tests := []struct {
		sort   string
		column string
		desc   bool
	}{
		{"title", "title", false},
		{"-title", "title", true},
		{"created_at", "created_at", false},
		{"-created_at", "created_at", true},
		// всё вне белого списка сводится к сортировке по названию
		{"", "title", false},
		{"leader_name", "title", false},
		{"id; drop table companies", "title", false},
	}

	for _, tt := range tests {
		column, desc := companyOrdering(tt.sort)
		assert.Equal(t, tt.column, column, "sort=%q", tt.sort)
		assert.Equal(t, tt.desc, desc, "sort=%q", tt.sort)
	}
}

func TestProjectOrdering(t *testing.T) {
	tests := []struct {
		sort   string
		column string
		desc   bool
	}{
		{"name", "name", false},
		{"-name", "name", true},
		{"-start_date", "start_date", true},
		{"price", "price", false},
		{"-price", "price", true},
		{"", "start_date", false},
		{"status", "start_date", false},
	}

	for _, tt := range tests {
		column, desc := projectOrdering(tt.sort)
		assert.Equal(t, tt.column, column, "sort=%q", tt.sort)
		assert.Equal(t, tt.desc, desc, "sort=%q", tt.sort)
	}
}

func TestProfileOrdering(t *testing.T) {
	column, desc := profileOrdering("-name")
	assert.Equal(t, "name", column)
	assert.True(t, desc)

	column, desc = profileOrdering("")
	assert.Equal(t, "user_id", column)
	assert.False(t, desc)
}

func TestStatusByKey(t *testing.T) {
	status, ok := statusByKey("not_started")
	assert.True(t, ok)
	assert.Equal(t, models.StatusNotStarted, status)

	status, ok = statusByKey("in_process")
	assert.True(t, ok)
	assert.Equal(t, models.StatusInProgress, status)

	status, ok = statusByKey("completed")
	assert.True(t, ok)
	assert.Equal(t, models.StatusCompleted, status)

	_, ok = statusByKey("")
	assert.False(t, ok)
	_, ok = statusByKey("cancelled")
	assert.False(t, ok)
}

func TestChannelByKey(t *testing.T) {
	channel, ok := channelByKey("phone")
	assert.True(t, ok)
	assert.Equal(t, models.ChannelPhoneCall, channel)

	channel, ok = channelByKey("email")
	assert.True(t, ok)
	assert.Equal(t, models.ChannelEmail, channel)

	channel, ok = channelByKey("messenger")
	assert.True(t, ok)
	assert.Equal(t, models.ChannelMessenger, channel)

	_, ok = channelByKey("fax")
	assert.False(t, ok)
}

func TestEnumValidators(t *testing.T) {
	assert.True(t, validChannel(models.ChannelPhoneCall))
	assert.False(t, validChannel("Голубиная почта"))

	assert.True(t, validReferenceKind(models.ToCompany))
	assert.True(t, validReferenceKind(models.ToCustomer))
	assert.True(t, validReferenceKind(""), "вид связи может быть не задан")
	assert.False(t, validReferenceKind("с партнёром"))

	assert.True(t, validRating(models.RatingThree))
	assert.False(t, validRating("☆☆☆☆☆☆"))
	assert.False(t, validRating(""))

	assert.True(t, validGender(models.GenderMale))
	assert.True(t, validGender(""), "пол необязателен")
	assert.False(t, validGender("другое"))
}
