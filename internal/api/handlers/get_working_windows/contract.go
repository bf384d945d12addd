package get_working_windows

import (
	"context"

	getWorkingWindows "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_working_windows"
)

type GetWorkingWindowsUseCase interface {
	Execute(ctx context.Context, req *getWorkingWindows.Request) (*getWorkingWindows.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
