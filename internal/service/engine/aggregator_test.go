package engine

import (
	"testing"

	"neotask/internal/model/task"
)

func TestBuildTaskResultOrdersAndCounts(t *testing.T) {
	// 模拟完成顺序与声明顺序不一致的并行结果
	results := []task.ActionResult{
		{Index: 2, Name: "c", Success: true, DurationMS: 10},
		{Index: 0, Name: "a", Success: true, DurationMS: 120},
		{Index: 1, Name: "b", Success: false, DurationMS: 60, Error: "boom"},
	}

	result := BuildTaskResult("task_x", results, 130, true)

	if result.TaskID != "task_x" {
		t.Errorf("TaskID = %s, want task_x", result.TaskID)
	}
	// 按原始索引归位
	for i, ar := range result.ActionResults {
		if ar.Index != i {
			t.Errorf("result[%d].Index = %d, want %d", i, ar.Index, i)
		}
	}
	if result.ActionResults[0].Name != "a" || result.ActionResults[2].Name != "c" {
		t.Errorf("ordering wrong: %+v", result.ActionResults)
	}

	if result.SuccessfulCount != 2 || result.FailedCount != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", result.SuccessfulCount, result.FailedCount)
	}
	if result.Status != task.TaskStatusError {
		t.Errorf("status = %s, want error", result.Status)
	}
	if result.ActionDurations != 190 {
		t.Errorf("ActionDurations = %d, want 190", result.ActionDurations)
	}
	if result.TotalDurationMS != 130 {
		t.Errorf("TotalDurationMS = %d, want 130", result.TotalDurationMS)
	}

	wantRatio := float64(190) / float64(130)
	if result.EfficiencyRatio != wantRatio {
		t.Errorf("EfficiencyRatio = %f, want %f", result.EfficiencyRatio, wantRatio)
	}
}

func TestBuildTaskResultSequentialHasNoRatio(t *testing.T) {
	results := []task.ActionResult{
		{Index: 0, Name: "a", Success: true, DurationMS: 50},
	}

	result := BuildTaskResult("task_y", results, 55, false)

	if result.Status != task.TaskStatusCompleted {
		t.Errorf("status = %s, want completed", result.Status)
	}
	if result.EfficiencyRatio != 0 {
		t.Errorf("EfficiencyRatio = %f, want 0 for sequential task", result.EfficiencyRatio)
	}
}

func TestBuildBatchSummaryStatus(t *testing.T) {
	created := []task.TaskResult{{TaskID: "task_1", Status: task.TaskStatusCompleted}}
	failed := []task.FailedTask{{Index: 1, Error: "action is required"}}

	tests := []struct {
		name    string
		created []task.TaskResult
		failed  []task.FailedTask
		want    string
	}{
		{name: "all_created", created: created, failed: nil, want: task.BatchStatusSuccess},
		{name: "mixed", created: created, failed: failed, want: task.BatchStatusPartial},
		{name: "all_failed", created: nil, failed: failed, want: task.BatchStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := BuildBatchSummary("batch_z", "alice", len(tt.created)+len(tt.failed), tt.created, tt.failed)
			if summary.Status != tt.want {
				t.Errorf("Status = %s, want %s", summary.Status, tt.want)
			}
			if summary.BatchID != "batch_z" || summary.AssignedBy != "alice" {
				t.Errorf("identity = (%s, %s)", summary.BatchID, summary.AssignedBy)
			}
			// 序列化字段保证非nil
			if summary.CreatedTasks == nil || summary.FailedTasks == nil {
				t.Error("CreatedTasks/FailedTasks must not be nil")
			}
		})
	}
}
