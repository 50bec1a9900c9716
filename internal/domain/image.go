package domain

// Image описывает изображение товара, которое хранится в S3
type Image struct {
	ID          string // uuid
	Bucket      string
	ObjectKey   string
	Size        int64
	ContentType string
}

func NewImage(id, bucket, objectKey string, size int64, contentType string) *Image {
	return &Image{
		ID:          id,
		Bucket:      bucket,
		ObjectKey:   objectKey,
		Size:        size,
		ContentType: contentType,
	}
}
