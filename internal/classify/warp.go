package classify

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/inference"
)

// FrameTensor converts a BGR uint8 frame into the normalized RGB float
// tensor layout the detection and landmark models expect.
func FrameTensor(frame gocv.Mat) (inference.Tensor, error) {
	data, shape, err := cropToTensor(frame)
	if err != nil {
		return inference.Tensor{}, err
	}
	return inference.Tensor{Data: data, Shape: shape}, nil
}

// warpRegionCrop extracts the region's rotated rectangle from the resized
// input frame into a square BGR crop of cropSize pixels. Rect points are in
// normalized frame coordinates.
func warpRegionCrop(frame gocv.Mat, r *detector.HandRegion, inputSize, cropSize int) (gocv.Mat, error) {
	src := make([]gocv.Point2f, 4)
	for i, p := range r.RectPoints {
		src[i] = gocv.Point2f{
			X: float32(p.X * float64(inputSize)),
			Y: float32(p.Y * float64(inputSize)),
		}
	}

	size := float32(cropSize)
	dst := []gocv.Point2f{
		{X: 0, Y: 0},
		{X: size, Y: 0},
		{X: size, Y: size},
		{X: 0, Y: size},
	}

	srcVec := gocv.NewPoint2fVectorFromPoints(src)
	defer srcVec.Close()
	dstVec := gocv.NewPoint2fVectorFromPoints(dst)
	defer dstVec.Close()

	transform := gocv.GetPerspectiveTransform2f(srcVec, dstVec)
	defer transform.Close()

	crop := gocv.NewMat()
	gocv.WarpPerspective(frame, &crop, transform, image.Pt(cropSize, cropSize))
	if crop.Empty() {
		crop.Close()
		return gocv.Mat{}, fmt.Errorf("warp produced empty crop")
	}

	return crop, nil
}

// cropToTensor converts a BGR uint8 crop into a normalized RGB float
// tensor of shape [1, h, w, 3].
func cropToTensor(crop gocv.Mat) (data []float32, shape []int, err error) {
	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(crop, &rgb, gocv.ColorBGRToRGB)

	scaled := gocv.NewMat()
	defer scaled.Close()
	rgb.ConvertToWithParams(&scaled, gocv.MatTypeCV32FC3, 1.0/255.0, 0)

	raw, err := scaled.DataPtrFloat32()
	if err != nil {
		return nil, nil, fmt.Errorf("read crop data: %w", err)
	}

	data = make([]float32, len(raw))
	copy(data, raw)
	return data, []int{1, crop.Rows(), crop.Cols(), crop.Channels()}, nil
}
