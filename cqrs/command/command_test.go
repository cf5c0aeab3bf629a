package command_test

import (
	"context"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/paycheckout/cqrs"
	"github.com/rise-and-shine/paycheckout/cqrs/command"
	"github.com/rise-and-shine/paycheckout/logger"
)

type voidOrder struct {
	OrderID string `json:"paypal_order_id"`
}

func (voidOrder) RequestName() string { return "test.order.void" }

type voidHandler struct {
	voided []string
}

func (h *voidHandler) Execute(_ context.Context, cmd voidOrder) (command.EmptyResult, error) {
	h.voided = append(h.voided, cmd.OrderID)
	return command.EmptyResult{}, nil
}

func TestRegisterAndDispatch(t *testing.T) {
	reg := cqrs.NewRegistry()
	h := &voidHandler{}

	require.NoError(t, command.Register[voidOrder, command.EmptyResult](reg, h))

	bus := cqrs.New(reg, logger.Nop())

	res, err := command.Dispatch[command.EmptyResult](t.Context(), bus, voidOrder{OrderID: "5O190127TN364715T"})
	require.NoError(t, err)

	assert.Equal(t, command.EmptyResult{}, res)
	assert.Equal(t, []string{"5O190127TN364715T"}, h.voided)
}

func TestRegisterHandlerFunc(t *testing.T) {
	reg := cqrs.NewRegistry()

	fn := command.HandlerFunc[voidOrder, string](func(_ context.Context, cmd voidOrder) (string, error) {
		return "voided " + cmd.OrderID, nil
	})
	require.NoError(t, command.Register[voidOrder, string](reg, fn))

	err := command.Register[voidOrder, string](reg, fn)
	assert.True(t, cqrs.IsDuplicateHandler(err))

	bus := cqrs.New(reg, logger.Nop())

	res, err := command.Dispatch[string](t.Context(), bus, voidOrder{OrderID: "A"})
	require.NoError(t, err)
	assert.Equal(t, "voided A", res)

	_, err = command.Dispatch[int](t.Context(), bus, voidOrder{OrderID: "A"})
	assert.True(t, errx.IsCodeIn(err, cqrs.CodeResultTypeMismatch))
}

func TestRegisterNilHandler(t *testing.T) {
	err := command.Register[voidOrder, string](cqrs.NewRegistry(), nil)
	assert.True(t, errx.IsCodeIn(err, cqrs.CodeInvalidHandler))
}
