package engine

import (
	"context"
	"errors"
	"testing"

	"neotask/internal/model/task"
)

func TestIngestEmptyBatch(t *testing.T) {
	ingestor := NewTaskIngestor("system")

	if _, err := ingestor.Ingest(context.Background(), nil); !errors.Is(err, task.ErrEmptyBatch) {
		t.Errorf("Ingest(nil) error = %v, want ErrEmptyBatch", err)
	}
	if _, err := ingestor.Ingest(context.Background(), &task.BatchRequest{}); !errors.Is(err, task.ErrEmptyBatch) {
		t.Errorf("Ingest(empty) error = %v, want ErrEmptyBatch", err)
	}
}

func TestIngestActionShapes(t *testing.T) {
	ingestor := NewTaskIngestor("system")

	req := &task.BatchRequest{
		AssignedBy: "alice",
		Tasks: []task.RawTask{
			{Action: "reflect"},                                    // 单个名称
			{Action: []string{"reflect", "evolve"}},                // 字符串列表
			{Action: []interface{}{"reflect", "sleep"}},            // JSON解码出的列表
			{Action: []interface{}{"reflect", 42}},                 // 非字符串元素 -> 失败
			{Action: nil},                                          // 缺失 -> 失败
			{Action: []string{}},                                   // 空列表 -> 失败
			{Action: "   "},                                        // 空白名称 -> 失败
			{Action: map[string]interface{}{"name": "reflect"}},    // 非法形态 -> 失败
		},
	}

	result, err := ingestor.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	// N=8,M=5:3个任务 + 5条失败记录
	if len(result.Tasks) != 3 {
		t.Errorf("created tasks = %d, want 3", len(result.Tasks))
	}
	if len(result.Failed) != 5 {
		t.Errorf("failed entries = %d, want 5", len(result.Failed))
	}

	// 失败记录保留原始条目位置
	wantFailedIndexes := []int{3, 4, 5, 6, 7}
	for i, f := range result.Failed {
		if f.Index != wantFailedIndexes[i] {
			t.Errorf("failed[%d].Index = %d, want %d", i, f.Index, wantFailedIndexes[i])
		}
		if f.Error == "" {
			t.Errorf("failed[%d] has no error message", i)
		}
	}

	// 所有任务共享批次ID,初始状态received
	for _, tk := range result.Tasks {
		if tk.BatchID != result.BatchID {
			t.Errorf("task %s batch id = %s, want %s", tk.ID, tk.BatchID, result.BatchID)
		}
		if tk.Status != task.TaskStatusReceived {
			t.Errorf("task %s status = %s, want received", tk.ID, tk.Status)
		}
		if tk.AssignedBy != "alice" {
			t.Errorf("task %s assigned_by = %s, want alice", tk.ID, tk.AssignedBy)
		}
	}

	// 动作序列保持声明顺序
	second := result.Tasks[1]
	names := second.ActionNames()
	if len(names) != 2 || names[0] != "reflect" || names[1] != "evolve" {
		t.Errorf("action sequence = %v, want [reflect evolve]", names)
	}
	for pos, spec := range second.ActionSequence {
		if spec.Index != pos {
			t.Errorf("action spec index = %d, want %d", spec.Index, pos)
		}
	}
}

func TestIngestDefaultAssignedBy(t *testing.T) {
	ingestor := NewTaskIngestor("engine-default")

	result, err := ingestor.Ingest(context.Background(), &task.BatchRequest{
		Tasks: []task.RawTask{{Action: "reflect"}},
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if result.AssignedBy != "engine-default" {
		t.Errorf("AssignedBy = %s, want engine-default", result.AssignedBy)
	}
	if result.Tasks[0].AssignedBy != "engine-default" {
		t.Errorf("task AssignedBy = %s, want engine-default", result.Tasks[0].AssignedBy)
	}
}

func TestIngestSelfDestructAndParallelFlags(t *testing.T) {
	ingestor := NewTaskIngestor("system")

	result, err := ingestor.Ingest(context.Background(), &task.BatchRequest{
		SelfDestruct: true,
		Tasks: []task.RawTask{
			{Action: []string{"a", "b"}, IsParallel: true, Params: map[string]interface{}{"k": "v"}},
			{Action: "c"},
		},
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if !result.Tasks[0].IsParallel || result.Tasks[1].IsParallel {
		t.Error("IsParallel flags not preserved per task")
	}
	for _, tk := range result.Tasks {
		if !tk.SelfDestruct {
			t.Errorf("task %s SelfDestruct = false, want true", tk.ID)
		}
	}
	if result.Tasks[0].Params["k"] != "v" {
		t.Error("task params not preserved")
	}
}
