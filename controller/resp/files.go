package resp

import (
	"mime/multipart"

	"hotelbooking/services"
)

// OpenFiles opens the uploaded parts. The returned close func must be
// called once the files have been consumed.
func OpenFiles(headers []*multipart.FileHeader) ([]services.File, func(), error) {
	files := make([]services.File, 0, len(headers))
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		files = append(files, services.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}
	return files, closeAll, nil
}
