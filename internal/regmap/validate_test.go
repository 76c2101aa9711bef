package regmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// complementary returns a complementary register at addr holding one
// 16-bit field per access mode, starting at bit 0.
func complementary(t *testing.T, name string, addr uint64, access ...Access) *Register {
	t.Helper()

	r := newRegister(t, WithRegisterName(name), WithAddress(addr), WithComplementary(true))
	for i, a := range access {
		require.NoError(t, r.AddBitFields(newField(t, "bf_"+string(rune('a'+i)), WithLsb(16*i), WithWidth(16), WithAccess(a))))
	}

	return r
}

func TestValidateClean(t *testing.T) {
	m := NewDefault()

	ctrl := newRegister(t, WithRegisterName("CTRL"), WithAddress(0x0), WithWriteLock(true))
	require.NoError(t, ctrl.AddBitFields(
		newField(t, "EN", WithAccess(AccessRW)),
		newField(t, "STATUS", WithLsb(1), WithAccess(AccessRO)),
	))

	require.NoError(t, m.AddRegisters(
		ctrl,
		complementary(t, "DATA_W", 0x4, AccessWO),
		complementary(t, "DATA_R", 0x4, AccessRO, AccessRO),
	))

	require.NoError(t, m.Validate())
	assert.True(t, m.Check().IsValid())
}

func TestValidateComplementary(t *testing.T) {
	tests := []struct {
		name  string
		regs  func(t *testing.T) []*Register
		codes []string
	}{
		{
			name: "rw field",
			regs: func(t *testing.T) []*Register {
				return []*Register{complementary(t, "reg_a", 0x4, AccessRW)}
			},
			codes: []string{CodeComplementaryOrphan, CodeComplementaryRWField},
		},
		{
			name: "mixed ro and wo",
			regs: func(t *testing.T) []*Register {
				return []*Register{complementary(t, "reg_a", 0x4, AccessRO, AccessWO)}
			},
			codes: []string{CodeComplementaryOrphan, CodeComplementaryMixed},
		},
		{
			name: "orphan",
			regs: func(t *testing.T) []*Register {
				return []*Register{complementary(t, "reg_a", 0x4, AccessRO)}
			},
			codes: []string{CodeComplementaryOrphan},
		},
		{
			name: "pair both read only",
			regs: func(t *testing.T) []*Register {
				return []*Register{
					complementary(t, "rega_r1", 0x0, AccessRO),
					complementary(t, "rega_r2", 0x0, AccessRO),
				}
			},
			codes: []string{CodeComplementaryDirection},
		},
		{
			name: "pair with rw field",
			regs: func(t *testing.T) []*Register {
				return []*Register{
					complementary(t, "rega_w", 0x0, AccessWO),
					complementary(t, "rega_r", 0x0, AccessRW),
				}
			},
			codes: []string{CodeComplementaryRWField},
		},
		{
			name: "pair with empty register",
			regs: func(t *testing.T) []*Register {
				return []*Register{
					complementary(t, "rega_w", 0x0),
					complementary(t, "rega_r", 0x0, AccessRO),
				}
			},
			codes: []string{CodeComplementaryEmpty},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewDefault()
			// Deferred rules never fail at add time.
			require.NoError(t, m.AddRegisters(tt.regs(t)...))

			err := m.Validate()
			require.ErrorIs(t, err, ErrInvariantViolation)
			assert.Equal(t, tt.codes, m.Check().Codes())
		})
	}
}

func TestValidateComplementaryPairOrderIndependent(t *testing.T) {
	for _, order := range [][2]Access{{AccessRO, AccessWO}, {AccessWO, AccessRO}} {
		m := NewDefault()
		require.NoError(t, m.AddRegisters(
			complementary(t, "rega_1", 0x8, order[0]),
			complementary(t, "rega_2", 0x8, order[1]),
		))
		require.NoError(t, m.Validate())
	}
}

func TestValidateCompletesAfterPartner(t *testing.T) {
	m := NewDefault()
	require.NoError(t, m.AddRegisters(complementary(t, "rega_w", 0x0, AccessWO)))
	require.ErrorIs(t, m.Validate(), ErrInvariantViolation)

	require.NoError(t, m.AddRegisters(complementary(t, "rega_r", 0x0, AccessRO)))
	require.NoError(t, m.Validate())
}

func TestValidateWriteLock(t *testing.T) {
	tests := []struct {
		name    string
		access  Access
		wantErr bool
	}{
		{name: "ro", access: AccessRO, wantErr: true},
		{name: "wo", access: AccessWO},
		{name: "rw", access: AccessRW},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRegister(t, WithRegisterName("rega"), WithAddress(0x0), WithWriteLock(true))
			require.NoError(t, r.AddBitFields(newField(t, "bf_a", WithWidth(16), WithAccess(tt.access))))

			m := NewDefault()
			require.NoError(t, m.AddRegisters(r))

			err := m.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvariantViolation)
				assert.Equal(t, []string{CodeWriteLockNotWritable}, m.Check().Codes())

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestValidateWriteLockSetLater(t *testing.T) {
	r := newRegister(t, WithRegisterName("rega"), WithAddress(0x0))
	m := NewDefault()
	require.NoError(t, m.AddRegisters(r))

	r.SetWriteLock(true)
	require.ErrorIs(t, m.Validate(), ErrInvariantViolation)

	require.NoError(t, r.AddBitFields(newField(t, "bf_a", WithAccess(AccessWO))))
	require.NoError(t, m.Validate())
}

func TestCheckWarnings(t *testing.T) {
	m := NewDefault()
	require.NoError(t, m.AddRegisters(newRegister(t, WithRegisterName("EMPTY"), WithAddress(0x0))))

	d := m.Check()
	assert.True(t, d.IsValid())
	require.Len(t, d.Warnings, 1)
	assert.Equal(t, CodeRegisterWithoutBitField, d.Warnings[0].Code)
	assert.Equal(t, "EMPTY", d.Warnings[0].Register)
	require.NoError(t, m.Validate())
}

func TestValidateReportsEveryViolation(t *testing.T) {
	locked := newRegister(t, WithRegisterName("LOCKED"), WithAddress(0x10), WithWriteLock(true))
	require.NoError(t, locked.AddBitFields(newField(t, "ST", WithAccess(AccessRO))))

	m := NewDefault()
	require.NoError(t, m.AddRegisters(complementary(t, "ORPHAN", 0x0, AccessRO), locked))

	err := m.Validate()
	require.ErrorIs(t, err, ErrInvariantViolation)
	assert.Contains(t, err.Error(), "ORPHAN")
	assert.Contains(t, err.Error(), "LOCKED")
	assert.Equal(t, []string{CodeComplementaryOrphan, CodeWriteLockNotWritable}, m.Check().Codes())
}

func TestCheckInitialWiderThanField(t *testing.T) {
	r := newRegister(t, WithRegisterName("rega"), WithAddress(0x0))
	require.NoError(t, r.AddBitFields(newField(t, "bf_a", WithWidth(2), WithInitial(0x7))))

	m := NewDefault()
	require.NoError(t, m.AddRegisters(r))
	require.NoError(t, m.Validate())

	d := m.Check()
	require.Len(t, d.Warnings, 1)
	assert.Equal(t, CodeInitialExceedsWidth, d.Warnings[0].Code)
	assert.Equal(t, "bf_a", d.Warnings[0].Field)
}
