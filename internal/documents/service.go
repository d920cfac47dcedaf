package documents

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/google/uuid"
)

var (
	ErrFolderNotEmpty   = errors.New("folder has children or files")
	ErrFacilityMismatch = errors.New("record belongs to another facility")
)

type DocumentService struct {
	folderRepo FolderRepository
	fileRepo   FileRepository
	uploadDir  string
}

func NewDocumentService(folderRepo FolderRepository, fileRepo FileRepository, uploadDir string) *DocumentService {
	return &DocumentService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		uploadDir:  uploadDir,
	}
}

func (s *DocumentService) GetFolder(ctx context.Context, facilityID uint, folderID uint) (*model.DocumentFolder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.FacilityID != facilityID {
		return nil, ErrFolderNotFound
	}
	return folder, nil
}

func (s *DocumentService) ListFolders(ctx context.Context, facilityID uint, parentID *uint) ([]*model.DocumentFolder, error) {
	return s.folderRepo.List(ctx, facilityID, parentID)
}

func (s *DocumentService) CreateFolder(ctx context.Context, facilityID uint, parentID *uint, name string, createdBy uint) (*model.DocumentFolder, error) {
	if parentID != nil {
		if _, err := s.GetFolder(ctx, facilityID, *parentID); err != nil {
			return nil, err
		}
	}
	folder := model.DocumentFolder{
		FacilityID: facilityID,
		ParentID:   parentID,
		Name:       name,
		CreatedBy:  createdBy,
	}
	if err := s.folderRepo.Create(ctx, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// FolderContents returns child and file counts, the inputs to the folder
// deletion rule.
func (s *DocumentService) FolderContents(ctx context.Context, folderID uint) (children int64, files int64, err error) {
	children, err = s.folderRepo.CountChildren(ctx, folderID)
	if err != nil {
		return 0, 0, err
	}
	files, err = s.folderRepo.CountFiles(ctx, folderID)
	if err != nil {
		return 0, 0, err
	}
	return children, files, nil
}

func (s *DocumentService) DeleteFolder(ctx context.Context, facilityID uint, folderID uint) error {
	if _, err := s.GetFolder(ctx, facilityID, folderID); err != nil {
		return err
	}
	return s.folderRepo.Delete(ctx, folderID)
}

func (s *DocumentService) ListFiles(ctx context.Context, facilityID uint, folderID *uint) ([]*model.DocumentFile, error) {
	return s.fileRepo.List(ctx, facilityID, folderID)
}

func (s *DocumentService) GetFile(ctx context.Context, facilityID uint, fileID uint) (*model.DocumentFile, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.FacilityID != facilityID {
		return nil, ErrFileNotFound
	}
	return file, nil
}

// SaveUpload stores the payload under a generated name so user-controlled
// filenames never reach the filesystem, then records the database row.
func (s *DocumentService) SaveUpload(ctx context.Context, facilityID uint, folderID *uint, header *multipart.FileHeader, uploadedBy uint) (*model.DocumentFile, error) {
	if folderID != nil {
		if _, err := s.GetFolder(ctx, facilityID, *folderID); err != nil {
			return nil, err
		}
	}

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.uploadDir, storedName))
	if err != nil {
		return nil, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	file := model.DocumentFile{
		FacilityID:   facilityID,
		FolderID:     folderID,
		OriginalName: filepath.Base(header.Filename),
		StoredName:   storedName,
		Size:         header.Size,
		ContentType:  header.Header.Get("Content-Type"),
		UploadedBy:   uploadedBy,
	}
	if err := s.fileRepo.Create(ctx, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// FilePath resolves the on-disk location for downloads.
func (s *DocumentService) FilePath(file *model.DocumentFile) string {
	return filepath.Join(s.uploadDir, file.StoredName)
}

func (s *DocumentService) DeleteFile(ctx context.Context, facilityID uint, fileID uint) error {
	file, err := s.GetFile(ctx, facilityID, fileID)
	if err != nil {
		return err
	}
	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return err
	}
	// Removing the blob is best-effort; the row is the source of truth.
	_ = os.Remove(s.FilePath(file))
	return nil
}
