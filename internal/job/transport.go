package job

import "github.com/gigboard/gigboard/internal/apperror"

type GetJobRequest struct {
	ID int64
}

func (r GetJobRequest) Validate() *apperror.AppError {
	if r.ID <= 0 {
		return apperror.New(apperror.BadRequest, "job id must be positive")
	}
	return nil
}

type ListJobsRequest struct {
	Status string
	Free   bool
	Mine   bool
	UserID int64
}

func (r ListJobsRequest) Validate() *apperror.AppError {
	if r.Status != "" {
		if _, err := ParseStatus(r.Status); err != nil {
			return apperror.New(apperror.BadRequest, "invalid status filter")
		}
	}
	if r.Mine && r.UserID <= 0 {
		return apperror.New(apperror.BadRequest, "user id is required for mine filter")
	}
	return nil
}
