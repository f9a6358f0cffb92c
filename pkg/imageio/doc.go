// Package imageio loads source images and saves quantized previews.
//
// # Input
//
// [Load] reads JPEG, PNG, GIF and BMP files and returns a [Source] whose
// Image is a zero-origin *image.NRGBA. EXIF orientation is applied so the
// plates match what the user sees in a viewer.
//
//	src, err := imageio.Load("photo.jpg")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(src.Format, src.Image.Bounds())
//
// # Output
//
// [Save] picks the encoder from the file extension: .png, .jpg/.jpeg or
// .bmp. Any other extension is an INVALID_FORMAT error. [Encode] and
// [Decode] work on byte slices and back the preview cache.
package imageio
