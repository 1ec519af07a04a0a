package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueTitle(t *testing.T) {
	existing := []string{"Acme", "Globex"}

	t.Run("exact duplicate", func(t *testing.T) {
		v := UniqueTitle("Acme", existing)
		require.NotNil(t, v)
		assert.Equal(t, DuplicateTitle, v.Rule)
		assert.Equal(t, "title", v.Field)
	})

	t.Run("case-insensitive duplicate", func(t *testing.T) {
		assert.NotNil(t, UniqueTitle("ACME", existing))
		assert.NotNil(t, UniqueTitle("acme", existing))
	})

	t.Run("fresh title passes", func(t *testing.T) {
		assert.Nil(t, UniqueTitle("Initech", existing))
	})

	t.Run("self excluded on update", func(t *testing.T) {
		// при изменении записи вызывающий не включает её собственное
		// название в existing, поэтому переименование в себя проходит
		assert.Nil(t, UniqueTitle("Acme", []string{"Globex"}))
	})

	t.Run("no records at all", func(t *testing.T) {
		assert.Nil(t, UniqueTitle("Acme", nil))
	})
}

func TestDateOrder(t *testing.T) {
	t.Run("end after start passes", func(t *testing.T) {
		assert.Nil(t, DateOrder(date("2024-01-10"), date("2024-01-11")))
	})

	t.Run("equal dates rejected", func(t *testing.T) {
		v := DateOrder(date("2024-01-10"), date("2024-01-10"))
		require.NotNil(t, v)
		assert.Equal(t, InvalidDateRange, v.Rule)
		assert.Equal(t, "end_date", v.Field)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		assert.NotNil(t, DateOrder(date("2024-01-10"), date("2024-01-09")))
	})
}

func TestNameMatchesAccount(t *testing.T) {
	t.Run("exact match passes", func(t *testing.T) {
		assert.Nil(t, NameMatchesAccount("John Smith", "John", "Smith"))
	})

	t.Run("case matters", func(t *testing.T) {
		v := NameMatchesAccount("john smith", "John", "Smith")
		require.NotNil(t, v)
		assert.Equal(t, NameMismatch, v.Rule)
	})

	t.Run("no trimming", func(t *testing.T) {
		assert.NotNil(t, NameMatchesAccount(" John Smith", "John", "Smith"))
		assert.NotNil(t, NameMatchesAccount("John Smith ", "John", "Smith"))
	})

	t.Run("single space join", func(t *testing.T) {
		assert.NotNil(t, NameMatchesAccount("John  Smith", "John", "Smith"))
	})
}

// Проверки не обрываются на первой ошибке: запрос отклоняется целиком
// со списком всех нарушений.
func TestCollect(t *testing.T) {
	vs := Collect(
		UniqueTitle("Acme", []string{"acme"}),
		DateOrder(date("2024-01-10"), date("2024-01-10")),
		NameMatchesAccount("John Smith", "John", "Smith"), // проходит
	)

	require.Len(t, vs, 2)
	assert.Equal(t, DuplicateTitle, vs[0].Rule)
	assert.Equal(t, InvalidDateRange, vs[1].Rule)

	assert.Contains(t, vs.Error(), "Введите уникальное название")
	assert.Contains(t, vs.Error(), "Дата окончания проекта")
}

func TestCollectAllPass(t *testing.T) {
	vs := Collect(
		UniqueTitle("Initech", []string{"Acme"}),
		DateOrder(date("2024-01-10"), date("2024-01-11")),
	)
	assert.Empty(t, vs)
}

func TestViolationError(t *testing.T) {
	v := UniqueTitle("Acme", []string{"Acme"})
	require.NotNil(t, v)
	assert.Equal(t, "title: Введите уникальное название", v.Error())
}
