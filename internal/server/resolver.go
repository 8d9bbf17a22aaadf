package server

import (
	"context"
	"errors"

	memberModel "github.com/festy23/workmatch/internal/member/model"
	memberRepository "github.com/festy23/workmatch/internal/member/repository"
	"github.com/festy23/workmatch/internal/middleware"
	postModel "github.com/festy23/workmatch/internal/post/model"
	postRepository "github.com/festy23/workmatch/internal/post/repository"
)

// accountResolver maps gateway accounts onto member and company rows.
type accountResolver struct {
	members memberRepository.Repository
	posts   postRepository.Repository
}

func (r accountResolver) ResolveMember(ctx context.Context, accountID int64) (int64, error) {
	member, err := r.members.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, memberModel.ErrMemberNotFound) {
			return 0, middleware.ErrUnknownAccount
		}
		return 0, err
	}
	return member.ID, nil
}

func (r accountResolver) ResolveCompany(ctx context.Context, accountID int64) (int64, error) {
	company, err := r.posts.GetCompanyByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, postModel.ErrCompanyNotFound) {
			return 0, middleware.ErrUnknownAccount
		}
		return 0, err
	}
	return company.ID, nil
}
