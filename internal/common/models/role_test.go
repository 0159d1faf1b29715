package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleKnownValues(t *testing.T) {
	for _, raw := range []string{"ADMIN", "MANAGER", "PHYSIOTHERAPIST", "RECEPTIONIST"} {
		role, err := ParseRole(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, Role(raw), role)
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "admin", "DOCTOR", "ADMIN "} {
		_, err := ParseRole(raw)
		assert.Error(t, err, raw)
	}
}

func TestRoleLabels(t *testing.T) {
	assert.Equal(t, "Administrador", RoleAdmin.Label())
	assert.Equal(t, "Gestor", RoleManager.Label())
	assert.Equal(t, "Fisioterapeuta", RolePhysiotherapist.Label())
	assert.Equal(t, "Recepcionista", RoleReceptionist.Label())
}
