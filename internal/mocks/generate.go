package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/player --output domain/player --outpkg playermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/match --output domain/match --outpkg matchmock --filename repository_mock.go
//go:generate go run go.uber.org/mock/mockgen@v0.5.0 -package=rolesyncmock -destination=domain/rolesync/rolesync_mock.go github.com/riskibarqy/prissleague/internal/domain/rolesync GuildClient,Notifier,Locker
