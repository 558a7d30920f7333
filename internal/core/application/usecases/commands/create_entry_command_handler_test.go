package commands_test

import (
	"context"
	"errors"
	"testing"

	"orderdesk/internal/core/application/resolver"
	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEntryRepository struct{ mock.Mock }

func (m *MockEntryRepository) Add(ctx context.Context, e *entry.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEntryRepository) AddMany(_ context.Context, _ []*entry.Entry) error {
	return errors.New("not implemented in mock")
}
func (m *MockEntryRepository) Update(_ context.Context, _ *entry.Entry) error {
	return errors.New("not implemented in mock")
}
func (m *MockEntryRepository) Get(_ context.Context, _ kernel.UUID) (*entry.Entry, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockEntryRepository) FindByOrderLine(_ context.Context, _ kernel.UUID) (*entry.Entry, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockEntryRepository) Find(_ context.Context, _ ports.EntryFilter) ([]*entry.Entry, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockEntryRepository) Delete(_ context.Context, _ kernel.UUID) error {
	return errors.New("not implemented in mock")
}
func (m *MockEntryRepository) DeleteMany(_ context.Context, _ []kernel.UUID, _ ...entry.Status) ([]kernel.UUID, error) {
	return nil, errors.New("not implemented in mock")
}

type MockEntryUoW struct{ mock.Mock }

func (m *MockEntryUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockEntryUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockEntryUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockEntryUoW) EntryRepository() ports.EntryRepository {
	args := m.Called()
	return args.Get(0).(ports.EntryRepository)
}

type MockEntryUoWFactory struct{ mock.Mock }

func (m *MockEntryUoWFactory) Create() commands.EntryUoW {
	args := m.Called()
	return args.Get(0).(commands.EntryUoW)
}

type MockEntryResolver struct{ mock.Mock }

func (m *MockEntryResolver) ResolveKeys(ctx context.Context, keys resolver.Keys) (resolver.Resolution, error) {
	args := m.Called(ctx, keys)
	return args.Get(0).(resolver.Resolution), args.Error(1)
}

func validEntryInput() commands.EntryInput {
	return commands.EntryInput{
		ShipDate:     "2024-03-05",
		CustomerName: "Acme Meats",
		ProductCode:  "P1",
		Price:        dec("10"),
		OrderedQty:   dec("5"),
	}
}

func TestCreateEntryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateEntryCommand(kernel.NewUUID(), validEntryInput(), entry.Unknown)
	require.NoError(t, err)

	res := new(MockEntryResolver)
	res.On("ResolveKeys", ctx, mock.Anything).Return(resolver.Resolution{}, nil).Once()

	repo := new(MockEntryRepository)
	uow := new(MockEntryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("EntryRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.MatchedBy(func(e *entry.Entry) bool {
			return e.Status() == entry.Draft && e.BatchID() == "05032024" && !e.Customer().IsResolved()
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockEntryUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &recordingPublisher{}
	log, _ := testLogger()
	h := commands.NewCreateEntryCommandHandler(factory, res, publisher, testClock(), log)
	require.NoError(t, h.Handle(ctx, cmd))

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	res.AssertExpectations(t)
	assert.Equal(t, []string{ports.EventEntryCreated}, publisher.names())
}

func TestCreateEntryCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockEntryUoWFactory)
	log, _ := testLogger()
	h := commands.NewCreateEntryCommandHandler(factory, new(MockEntryResolver), nil, testClock(), log)

	err := h.Handle(t.Context(), commands.CreateEntryCommand{})
	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateEntryCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateEntryCommand(kernel.NewUUID(), validEntryInput(), entry.Forming)
	require.NoError(t, err)

	res := new(MockEntryResolver)
	res.On("ResolveKeys", ctx, mock.Anything).Return(resolver.Resolution{}, nil).Once()

	repo := new(MockEntryRepository)
	uow := new(MockEntryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("EntryRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*entry.Entry")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockEntryUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &recordingPublisher{}
	log, _ := testLogger()
	h := commands.NewCreateEntryCommandHandler(factory, res, publisher, testClock(), log)
	err = h.Handle(ctx, cmd)

	require.EqualError(t, err, "add error")
	uow.AssertExpectations(t)
	assert.Empty(t, publisher.names())
}

func TestCreateEntryCommandHandler_Handle_ResolverError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateEntryCommand(kernel.NewUUID(), validEntryInput(), entry.Draft)
	require.NoError(t, err)

	res := new(MockEntryResolver)
	res.On("ResolveKeys", ctx, mock.Anything).Return(resolver.Resolution{}, errors.New("db down")).Once()
	factory := new(MockEntryUoWFactory)

	log, _ := testLogger()
	h := commands.NewCreateEntryCommandHandler(factory, res, nil, testClock(), log)
	require.Error(t, h.Handle(ctx, cmd))
	factory.AssertNotCalled(t, "Create")
}

func TestNewCreateEntryCommand(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *commands.EntryInput)
		status  entry.Status
		wantErr bool
	}{
		{name: "valid draft", mutate: func(*commands.EntryInput) {}},
		{name: "valid with customer id only", mutate: func(in *commands.EntryInput) {
			in.CustomerName = ""
			in.CustomerID = int64Ptr(7)
		}},
		{name: "missing ship date", mutate: func(in *commands.EntryInput) { in.ShipDate = "" }, wantErr: true},
		{name: "garbage ship date", mutate: func(in *commands.EntryInput) { in.ShipDate = "soon" }, wantErr: true},
		{name: "missing customer", mutate: func(in *commands.EntryInput) { in.CustomerName = "  " }, wantErr: true},
		{name: "synced is not an intake status", mutate: func(*commands.EntryInput) {}, status: entry.Synced, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validEntryInput()
			tt.mutate(&in)
			_, err := commands.NewCreateEntryCommand(kernel.NewUUID(), in, tt.status)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}
}
