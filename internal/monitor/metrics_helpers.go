package monitor

// 便捷函数供外部调用，无需访问 Metrics 实例

// IncCommandProcessed 增加命令处理计数
func IncCommandProcessed(cmdType, result string) {
	GetMetrics().IncCommandProcessed(cmdType, result)
}

// IncCommandError 增加命令处理错误计数
func IncCommandError(errType string) {
	GetMetrics().IncCommandError(errType)
}

// SetEntitiesTotal 设置集合实体数量
func SetEntitiesTotal(collection string, count int) {
	GetMetrics().SetEntitiesTotal(collection, count)
}

// IncCacheHit 增加缓存命中计数
func IncCacheHit(cacheType string) {
	GetMetrics().IncCacheHit(cacheType)
}

// IncCacheMiss 增加缓存未命中计数
func IncCacheMiss(cacheType string) {
	GetMetrics().IncCacheMiss(cacheType)
}

// SetCommandQueueSize 设置命令队列大小
func SetCommandQueueSize(size int) {
	GetMetrics().SetCommandQueueSize(size)
}

// IncCommandQueueFull 增加命令队列满事件计数
func IncCommandQueueFull() {
	GetMetrics().IncCommandQueueFull()
}

// ObserveApplyDuration 观察状态机执行耗时
func ObserveApplyDuration(duration float64) {
	GetMetrics().ObserveApplyDuration(duration)
}

// ObserveCommitDuration 观察落库耗时
func ObserveCommitDuration(duration float64) {
	GetMetrics().ObserveCommitDuration(duration)
}

// ObserveArchiveBatchSize 观察事件归档批量大小
func ObserveArchiveBatchSize(size int) {
	GetMetrics().ObserveArchiveBatchSize(size)
}

// AddArchiveRowsDeleted 累加清理掉的归档事件数
func AddArchiveRowsDeleted(count int64) {
	GetMetrics().AddArchiveRowsDeleted(count)
}
