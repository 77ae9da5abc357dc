package repository

import (
	"context"
	"database/sql"

	"github.com/wfunc/reflex-game/internal/models"
	"gorm.io/gorm"
)

// RoundResultRepository 回合结果仓储接口
type RoundResultRepository interface {
	BaseRepository
	Create(ctx context.Context, result *models.RoundResult) error
	BatchCreate(ctx context.Context, results []*models.RoundResult) error
	FindByID(ctx context.Context, id uint) (*models.RoundResult, error)
	FindByRound(ctx context.Context, sessionID string, round uint32) (*models.RoundResult, error)
	FindBySessionID(ctx context.Context, sessionID string, p *Pagination) ([]*models.RoundResult, error)
	FindTimeouts(ctx context.Context, sessionID string) ([]*models.RoundResult, error)
	BestTotal(ctx context.Context, sessionID string) (uint32, error)
	GetSessionStatistics(ctx context.Context, sessionID string) (*SessionStatistics, error)
}

// SessionStatistics 会话统计
type SessionStatistics struct {
	TotalRounds     int64   `json:"total_rounds"`
	CompletedRounds int64   `json:"completed_rounds"`
	AbortedRounds   int64   `json:"aborted_rounds"`
	Improvements    int64   `json:"improvements"`
	BestTotalMs     uint32  `json:"best_total_ms"`
	AvgTotalMs      float64 `json:"avg_total_ms"`
}

// roundResultRepo 回合结果仓储实现
type roundResultRepo struct {
	*BaseRepo
}

// NewRoundResultRepository 创建回合结果仓储
func NewRoundResultRepository(db *gorm.DB) RoundResultRepository {
	return &roundResultRepo{
		BaseRepo: NewBaseRepo(db),
	}
}

// Create 创建回合结果
func (r *roundResultRepo) Create(ctx context.Context, result *models.RoundResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

// BatchCreate 批量创建回合结果
func (r *roundResultRepo) BatchCreate(ctx context.Context, results []*models.RoundResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(results, 100).Error
}

// FindByID 根据ID查找
func (r *roundResultRepo) FindByID(ctx context.Context, id uint) (*models.RoundResult, error) {
	var result models.RoundResult
	err := r.db.WithContext(ctx).First(&result, id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindByRound 根据会话与回合序号查找
func (r *roundResultRepo) FindByRound(ctx context.Context, sessionID string, round uint32) (*models.RoundResult, error) {
	var result models.RoundResult
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND round = ?", sessionID, round).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindBySessionID 根据会话ID查找
func (r *roundResultRepo) FindBySessionID(ctx context.Context, sessionID string, p *Pagination) ([]*models.RoundResult, error) {
	var results []*models.RoundResult

	// 查询总数
	r.db.WithContext(ctx).
		Model(&models.RoundResult{}).
		Where("session_id = ?", sessionID).
		Count(&p.Total)

	// 查询数据
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("round asc").
		Scopes(Paginate(p)).
		Find(&results).Error

	return results, err
}

// FindTimeouts 查找中止回合（抢跑或窗口超时）
func (r *roundResultRepo) FindTimeouts(ctx context.Context, sessionID string) ([]*models.RoundResult, error) {
	var results []*models.RoundResult

	err := r.db.WithContext(ctx).
		Where("session_id = ? AND outcome <> ?", sessionID, "completed").
		Order("round asc").
		Find(&results).Error

	return results, err
}

// BestTotal 查询会话内完整回合的最佳总时间
// 无完整回合时返回 gorm.ErrRecordNotFound
func (r *roundResultRepo) BestTotal(ctx context.Context, sessionID string) (uint32, error) {
	var best sql.NullInt64

	err := r.db.WithContext(ctx).
		Model(&models.RoundResult{}).
		Where("session_id = ? AND outcome = ?", sessionID, "completed").
		Select("MIN(total_ms)").
		Row().Scan(&best)
	if err != nil {
		return 0, err
	}
	if !best.Valid {
		return 0, gorm.ErrRecordNotFound
	}

	return uint32(best.Int64), nil
}

// GetSessionStatistics 获取会话统计
func (r *roundResultRepo) GetSessionStatistics(ctx context.Context, sessionID string) (*SessionStatistics, error) {
	var stats SessionStatistics

	err := r.db.WithContext(ctx).
		Model(&models.RoundResult{}).
		Where("session_id = ?", sessionID).
		Select(
			"COUNT(*) as total_rounds",
			"COUNT(CASE WHEN outcome = 'completed' THEN 1 END) as completed_rounds",
			"COUNT(CASE WHEN outcome <> 'completed' THEN 1 END) as aborted_rounds",
			"COUNT(CASE WHEN improved THEN 1 END) as improvements",
		).
		Row().Scan(
			&stats.TotalRounds,
			&stats.CompletedRounds,
			&stats.AbortedRounds,
			&stats.Improvements,
		)
	if err != nil {
		return nil, err
	}

	// 最佳与平均只统计完整回合
	if stats.CompletedRounds > 0 {
		var best, avg sql.NullFloat64
		err = r.db.WithContext(ctx).
			Model(&models.RoundResult{}).
			Where("session_id = ? AND outcome = ?", sessionID, "completed").
			Select(
				"MIN(total_ms) as best",
				"AVG(total_ms) as avg",
			).
			Row().Scan(&best, &avg)
		if err != nil {
			return nil, err
		}
		if best.Valid {
			stats.BestTotalMs = uint32(best.Float64)
		}
		if avg.Valid {
			stats.AvgTotalMs = avg.Float64
		}
	}

	return &stats, nil
}

// WithTx 使用事务
func (r *roundResultRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &roundResultRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
