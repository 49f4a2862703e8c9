package mocks

//go:generate mockery --name RecordSource --srcpkg github.com/Aebel-Shajan/activity-tracker/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name RecordSink --srcpkg github.com/Aebel-Shajan/activity-tracker/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
