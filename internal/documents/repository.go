package documents

import (
	"context"
	"errors"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"gorm.io/gorm"
)

var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrFileNotFound   = errors.New("file not found")
)

type FolderRepository interface {
	GetByID(ctx context.Context, id uint) (*model.DocumentFolder, error)
	List(ctx context.Context, facilityID uint, parentID *uint) ([]*model.DocumentFolder, error)
	CountChildren(ctx context.Context, folderID uint) (int64, error)
	CountFiles(ctx context.Context, folderID uint) (int64, error)
	Create(ctx context.Context, folder *model.DocumentFolder) error
	Delete(ctx context.Context, id uint) error
}

type FileRepository interface {
	GetByID(ctx context.Context, id uint) (*model.DocumentFile, error)
	List(ctx context.Context, facilityID uint, folderID *uint) ([]*model.DocumentFile, error)
	Create(ctx context.Context, file *model.DocumentFile) error
	Delete(ctx context.Context, id uint) error
}

type folderRepository struct {
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) GetByID(ctx context.Context, id uint) (*model.DocumentFolder, error) {
	var folder model.DocumentFolder
	err := r.db.WithContext(ctx).First(&folder, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *folderRepository) List(ctx context.Context, facilityID uint, parentID *uint) ([]*model.DocumentFolder, error) {
	query := r.db.WithContext(ctx).Where("facility_id = ?", facilityID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	var folders []*model.DocumentFolder
	err := query.Order("name").Find(&folders).Error
	return folders, err
}

func (r *folderRepository) CountChildren(ctx context.Context, folderID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentFolder{}).
		Where("parent_id = ?", folderID).Count(&count).Error
	return count, err
}

func (r *folderRepository) CountFiles(ctx context.Context, folderID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentFile{}).
		Where("folder_id = ?", folderID).Count(&count).Error
	return count, err
}

func (r *folderRepository) Create(ctx context.Context, folder *model.DocumentFolder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

func (r *folderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.DocumentFolder{}, "id = ?", id).Error
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) GetByID(ctx context.Context, id uint) (*model.DocumentFile, error) {
	var file model.DocumentFile
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) List(ctx context.Context, facilityID uint, folderID *uint) ([]*model.DocumentFile, error) {
	query := r.db.WithContext(ctx).Where("facility_id = ?", facilityID)
	if folderID == nil {
		query = query.Where("folder_id IS NULL")
	} else {
		query = query.Where("folder_id = ?", *folderID)
	}
	var files []*model.DocumentFile
	err := query.Order("original_name").Find(&files).Error
	return files, err
}

func (r *fileRepository) Create(ctx context.Context, file *model.DocumentFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.DocumentFile{}, "id = ?", id).Error
}
