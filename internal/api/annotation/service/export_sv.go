package annotationService

import (
	"UIAnnotator/internal/api/annotation"
	"UIAnnotator/pkg/canvas"
	contextPkg "UIAnnotator/pkg/context"
	"UIAnnotator/pkg/log"
	"fmt"
	"golang.org/x/net/context"
)

func (s *annotationService) Export(ctx context.Context, id string, source string) ([]byte, string, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, "", err
	}

	src, err := parseSource(source)
	if err != nil {
		return nil, "", err
	}

	data, filename, err := canvas.Export(session.Store(), src)
	if err != nil {
		return nil, "", mapCanvasError(err)
	}

	return data, filename, nil
}

func (s *annotationService) UploadExport(ctx context.Context, id string, source string) (annotation.UploadResponse, error) {
	if s.exportStore == nil {
		return annotation.UploadResponse{}, annotation.ErrExportStoreDisabled
	}

	data, filename, err := s.Export(ctx, id, source)
	if err != nil {
		return annotation.UploadResponse{}, err
	}

	upload, err := s.exportStore.UploadExport(ctx, id, filename, data)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": id,
			"filename":   filename,
			"error":      err.Error(),
		}).Error("Export upload failed")
		return annotation.UploadResponse{}, fmt.Errorf("%w: %v", annotation.ErrExportUploadFailed, err)
	}

	s.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": id,
		"key":        upload.Key,
		"bytes":      len(data),
	}).Info("Export uploaded")

	src, _ := parseSource(source)
	return annotation.UploadResponse{
		Source:    src,
		Filename:  filename,
		Key:       upload.Key,
		URL:       upload.URL,
		ExpiresAt: upload.ExpiresAt,
	}, nil
}
