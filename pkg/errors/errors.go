package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrShiftTaken 班次已在提交时被其他分配流程占用
var ErrShiftTaken = errors.New("班次已被其他流程分配")
