package catalog

import (
	"context"
	"sync"

	"github.com/heartmarshall/bookshelf-backend/internal/adapter/postgres/book"
	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

var _ bookRepo = &bookRepoMock{}

type bookRepoMock struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Book, error)
	ListFunc    func(ctx context.Context, f book.Filter) ([]domain.Book, error)
	CreateFunc  func(ctx context.Context, b *domain.Book) (*domain.Book, error)
	UpdateFunc  func(ctx context.Context, id int64, params domain.BookUpdateParams) (*domain.Book, error)
	DeleteFunc  func(ctx context.Context, id int64) error

	calls struct {
		GetByID []struct {
			ID int64
		}
		List []struct {
			Filter book.Filter
		}
		Create []struct {
			Book *domain.Book
		}
		Update []struct {
			ID     int64
			Params domain.BookUpdateParams
		}
		Delete []struct {
			ID int64
		}
	}
	lockGetByID sync.RWMutex
	lockList    sync.RWMutex
	lockCreate  sync.RWMutex
	lockUpdate  sync.RWMutex
	lockDelete  sync.RWMutex
}

func (mock *bookRepoMock) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	if mock.GetByIDFunc == nil {
		panic("bookRepoMock.GetByIDFunc: method is nil but bookRepo.GetByID was just called")
	}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct{ ID int64 }{ID: id})
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *bookRepoMock) GetByIDCalls() []struct{ ID int64 } {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *bookRepoMock) List(ctx context.Context, f book.Filter) ([]domain.Book, error) {
	if mock.ListFunc == nil {
		panic("bookRepoMock.ListFunc: method is nil but bookRepo.List was just called")
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, struct{ Filter book.Filter }{Filter: f})
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, f)
}

func (mock *bookRepoMock) ListCalls() []struct{ Filter book.Filter } {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *bookRepoMock) Create(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	if mock.CreateFunc == nil {
		panic("bookRepoMock.CreateFunc: method is nil but bookRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Book *domain.Book }{Book: b})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, b)
}

func (mock *bookRepoMock) CreateCalls() []struct{ Book *domain.Book } {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *bookRepoMock) Update(ctx context.Context, id int64, params domain.BookUpdateParams) (*domain.Book, error) {
	if mock.UpdateFunc == nil {
		panic("bookRepoMock.UpdateFunc: method is nil but bookRepo.Update was just called")
	}
	callInfo := struct {
		ID     int64
		Params domain.BookUpdateParams
	}{ID: id, Params: params}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, id, params)
}

func (mock *bookRepoMock) UpdateCalls() []struct {
	ID     int64
	Params domain.BookUpdateParams
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *bookRepoMock) Delete(ctx context.Context, id int64) error {
	if mock.DeleteFunc == nil {
		panic("bookRepoMock.DeleteFunc: method is nil but bookRepo.Delete was just called")
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct{ ID int64 }{ID: id})
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *bookRepoMock) DeleteCalls() []struct{ ID int64 } {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

var _ dispatcher = &dispatcherMock{}

type dispatcherMock struct {
	DispatchFunc func(ctx context.Context, event domain.Event)

	calls struct {
		Dispatch []struct {
			Event domain.Event
		}
	}
	lockDispatch sync.RWMutex
}

func (mock *dispatcherMock) Dispatch(ctx context.Context, event domain.Event) {
	mock.lockDispatch.Lock()
	mock.calls.Dispatch = append(mock.calls.Dispatch, struct{ Event domain.Event }{Event: event})
	mock.lockDispatch.Unlock()
	if mock.DispatchFunc != nil {
		mock.DispatchFunc(ctx, event)
	}
}

func (mock *dispatcherMock) DispatchCalls() []struct{ Event domain.Event } {
	mock.lockDispatch.RLock()
	calls := mock.calls.Dispatch
	mock.lockDispatch.RUnlock()
	return calls
}
