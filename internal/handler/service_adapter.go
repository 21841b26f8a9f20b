package handler

import (
	"github.com/hitoshi/caretrack/internal/auth"
	"github.com/hitoshi/caretrack/internal/campaign"
	"github.com/hitoshi/caretrack/internal/care"
	"github.com/hitoshi/caretrack/internal/user"
)

// 各ドメインサービスはハンドラーのインターフェースを直接満たす。
// 適合が崩れた場合にビルドエラーで検知するためのチェック。

var _ AuthServiceInterface = (*auth.Service)(nil)
var _ CampaignServiceInterface = (*campaign.Service)(nil)
var _ CareServiceInterface = (*care.Service)(nil)
var _ SessionListerInterface = (*care.Service)(nil)
var _ UserServiceInterface = (*user.Service)(nil)
