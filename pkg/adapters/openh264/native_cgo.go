//go:build cgo && !noopenh264

package openh264

/*
#cgo LDFLAGS: -lopenh264
#include <wels/codec_api.h>
#include <stdlib.h>
#include <string.h>

static ISVCDecoder *h264kit_dec_create(int threads, int ec, int trace) {
    ISVCDecoder *dec = NULL;
    if (WelsCreateDecoder(&dec) != 0 || dec == NULL) {
        return NULL;
    }

    SDecodingParam param;
    memset(&param, 0, sizeof(param));
    param.sVideoProperty.eVideoBsType = VIDEO_BITSTREAM_AVC;
    param.eEcActiveIdc = ec ? ERROR_CON_SLICE_COPY : ERROR_CON_DISABLE;

    if ((*dec)->Initialize(dec, &param) != 0) {
        WelsDestroyDecoder(dec);
        return NULL;
    }

    int level = trace ? WELS_LOG_DETAIL : WELS_LOG_QUIET;
    (*dec)->SetOption(dec, DECODER_OPTION_TRACE_LEVEL, &level);
    if (threads > 0) {
        (*dec)->SetOption(dec, DECODER_OPTION_NUM_OF_THREADS, &threads);
    }
    return dec;
}

static long h264kit_dec_decode(ISVCDecoder *dec, const unsigned char *data, int len,
                               unsigned char **planes, SBufferInfo *info) {
    memset(info, 0, sizeof(*info));
    return (long)(*dec)->DecodeFrameNoDelay(dec, (unsigned char *)data, len, planes, info);
}

static long h264kit_dec_drain(ISVCDecoder *dec, unsigned char **planes, SBufferInfo *info) {
    memset(info, 0, sizeof(*info));
    return (long)(*dec)->FlushFrame(dec, planes, info);
}

static void h264kit_dec_destroy(ISVCDecoder *dec) {
    if (dec != NULL) {
        (*dec)->Uninitialize(dec);
        WelsDestroyDecoder(dec);
    }
}

static int h264kit_buf_ready(SBufferInfo *info) { return info->iBufferStatus == 1; }
static int h264kit_buf_width(SBufferInfo *info) { return info->UsrData.sSystemBuffer.iWidth; }
static int h264kit_buf_height(SBufferInfo *info) { return info->UsrData.sSystemBuffer.iHeight; }
static int h264kit_buf_stride_y(SBufferInfo *info) { return info->UsrData.sSystemBuffer.iStride[0]; }
static int h264kit_buf_stride_c(SBufferInfo *info) { return info->UsrData.sSystemBuffer.iStride[1]; }

static ISVCEncoder *h264kit_enc_create(int w, int h, int bitrate, float fps,
                                       int rc, int skip, int denoise, int trace) {
    ISVCEncoder *enc = NULL;
    if (WelsCreateSVCEncoder(&enc) != 0 || enc == NULL) {
        return NULL;
    }

    SEncParamExt param;
    memset(&param, 0, sizeof(param));
    (*enc)->GetDefaultParams(enc, &param);
    param.iPicWidth = w;
    param.iPicHeight = h;
    param.iTargetBitrate = bitrate;
    param.fMaxFrameRate = fps;
    param.iRCMode = (RC_MODES)rc;
    param.bEnableFrameSkip = skip != 0;
    param.bEnableDenoise = denoise != 0;
    param.sSpatialLayers[0].iVideoWidth = w;
    param.sSpatialLayers[0].iVideoHeight = h;
    param.sSpatialLayers[0].fFrameRate = fps;
    param.sSpatialLayers[0].iSpatialBitrate = bitrate;

    if ((*enc)->InitializeExt(enc, &param) != 0) {
        WelsDestroySVCEncoder(enc);
        return NULL;
    }

    int level = trace ? WELS_LOG_DETAIL : WELS_LOG_QUIET;
    (*enc)->SetOption(enc, ENCODER_OPTION_TRACE_LEVEL, &level);
    int fmt = videoFormatI420;
    (*enc)->SetOption(enc, ENCODER_OPTION_DATAFORMAT, &fmt);
    return enc;
}

static int h264kit_enc_encode(ISVCEncoder *enc, const unsigned char *y, const unsigned char *u,
                              const unsigned char *v, int sy, int sc, int w, int h,
                              long long ts, int force_idr, SFrameBSInfo *info) {
    if (force_idr) {
        (*enc)->ForceIntraFrame(enc, 1);
    }

    SSourcePicture pic;
    memset(&pic, 0, sizeof(pic));
    pic.iColorFormat = videoFormatI420;
    pic.iPicWidth = w;
    pic.iPicHeight = h;
    pic.iStride[0] = sy;
    pic.iStride[1] = sc;
    pic.iStride[2] = sc;
    pic.pData[0] = (unsigned char *)y;
    pic.pData[1] = (unsigned char *)u;
    pic.pData[2] = (unsigned char *)v;
    pic.uiTimeStamp = ts;

    memset(info, 0, sizeof(*info));
    return (*enc)->EncodeFrame(enc, &pic, info);
}

static int h264kit_enc_parameter_sets(ISVCEncoder *enc, SFrameBSInfo *info) {
    memset(info, 0, sizeof(*info));
    return (*enc)->EncodeParameterSets(enc, info);
}

static int h264kit_enc_set_dimensions(ISVCEncoder *enc, int w, int h) {
    SEncParamBase base;
    memset(&base, 0, sizeof(base));
    int rv = (*enc)->GetOption(enc, ENCODER_OPTION_SVC_ENCODE_PARAM_BASE, &base);
    if (rv != 0) {
        return rv;
    }
    base.iPicWidth = w;
    base.iPicHeight = h;
    return (*enc)->SetOption(enc, ENCODER_OPTION_SVC_ENCODE_PARAM_BASE, &base);
}

static void h264kit_enc_destroy(ISVCEncoder *enc) {
    if (enc != NULL) {
        (*enc)->Uninitialize(enc);
        WelsDestroySVCEncoder(enc);
    }
}

static int h264kit_layer_count(SFrameBSInfo *info) { return info->iLayerNum; }

static int h264kit_layer_size(SFrameBSInfo *info, int layer) {
    SLayerBSInfo *l = &info->sLayerInfo[layer];
    int total = 0;
    for (int i = 0; i < l->iNalCount; i++) {
        total += l->pNalLengthInByte[i];
    }
    return total;
}

static const unsigned char *h264kit_layer_data(SFrameBSInfo *info, int layer) {
    return info->sLayerInfo[layer].pBsBuf;
}
*/
import "C"

import (
	"unsafe"

	"github.com/user/h264kit/pkg/frame"
)

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

type cgoDecoder struct {
	dec *C.ISVCDecoder
}

func newNativeDecoder(cfg DecoderConfig) (nativeDecoder, error) {
	dec := C.h264kit_dec_create(C.int(cfg.Threads), boolToC(cfg.ErrorConcealment), boolToC(cfg.TraceNative))
	if dec == nil {
		return nil, &NativeError{Op: "create decoder", Status: -1, Kind: ErrAllocationFailure}
	}
	return &cgoDecoder{dec: dec}, nil
}

func (d *cgoDecoder) decode(annexb []byte) (nativePicture, int64) {
	var planes [3]*C.uchar
	var info C.SBufferInfo
	status := int64(C.h264kit_dec_decode(d.dec,
		(*C.uchar)(unsafe.Pointer(&annexb[0])), C.int(len(annexb)),
		&planes[0], &info))
	return pictureFromInfo(planes, &info), status
}

func (d *cgoDecoder) drain() (nativePicture, int64) {
	var planes [3]*C.uchar
	var info C.SBufferInfo
	status := int64(C.h264kit_dec_drain(d.dec, &planes[0], &info))
	return pictureFromInfo(planes, &info), status
}

func (d *cgoDecoder) close() {
	C.h264kit_dec_destroy(d.dec)
	d.dec = nil
}

// pictureFromInfo wraps the decoder's scratch planes without copying; the
// session copies them before the next native call.
func pictureFromInfo(planes [3]*C.uchar, info *C.SBufferInfo) nativePicture {
	if C.h264kit_buf_ready(info) == 0 || planes[0] == nil {
		return nativePicture{}
	}
	w := int(C.h264kit_buf_width(info))
	h := int(C.h264kit_buf_height(info))
	sy := int(C.h264kit_buf_stride_y(info))
	sc := int(C.h264kit_buf_stride_c(info))
	ch := (h + 1) / 2
	return nativePicture{
		valid:   true,
		width:   w,
		height:  h,
		strideY: sy,
		strideC: sc,
		y:       unsafe.Slice((*byte)(planes[0]), sy*h),
		cb:      unsafe.Slice((*byte)(planes[1]), sc*ch),
		cr:      unsafe.Slice((*byte)(planes[2]), sc*ch),
	}
}

type cgoEncoder struct {
	enc *C.ISVCEncoder
}

func newNativeEncoder(cfg EncoderConfig) (nativeEncoder, error) {
	enc := C.h264kit_enc_create(
		C.int(cfg.Width), C.int(cfg.Height),
		C.int(cfg.BitrateBps), C.float(cfg.FrameRate),
		C.int(cfg.RateControl),
		boolToC(cfg.EnableSkipFrame), boolToC(cfg.EnableDenoise), boolToC(cfg.TraceNative))
	if enc == nil {
		return nil, &NativeError{Op: "create encoder", Status: -1, Kind: ErrAllocationFailure}
	}
	return &cgoEncoder{enc: enc}, nil
}

func (e *cgoEncoder) encode(pic *frame.Plane, ts int64, forceKeyframe bool) ([]nativePacket, int64) {
	var info C.SFrameBSInfo
	status := int64(C.h264kit_enc_encode(e.enc,
		(*C.uchar)(unsafe.Pointer(&pic.Y[0])),
		(*C.uchar)(unsafe.Pointer(&pic.Cb[0])),
		(*C.uchar)(unsafe.Pointer(&pic.Cr[0])),
		C.int(pic.StrideY), C.int(pic.StrideC),
		C.int(pic.Width), C.int(pic.Height),
		C.longlong(ts), boolToC(forceKeyframe), &info))
	if status != cmResultSuccess {
		return nil, status
	}
	return packetsFromInfo(&info), cmResultSuccess
}

func (e *cgoEncoder) parameterSets() ([]nativePacket, int64) {
	var info C.SFrameBSInfo
	status := int64(C.h264kit_enc_parameter_sets(e.enc, &info))
	if status != cmResultSuccess {
		return nil, status
	}
	return packetsFromInfo(&info), cmResultSuccess
}

func (e *cgoEncoder) setDimensions(width, height int) int64 {
	return int64(C.h264kit_enc_set_dimensions(e.enc, C.int(width), C.int(height)))
}

// drain is a no-op: the native encoder emits synchronously and holds no
// packets back.
func (e *cgoEncoder) drain() ([]nativePacket, int64) {
	return nil, cmResultSuccess
}

func (e *cgoEncoder) close() {
	C.h264kit_enc_destroy(e.enc)
	e.enc = nil
}

// packetsFromInfo copies the coded layers out of the native bitstream
// buffer into one owned packet. Skipped pictures produce nothing.
func packetsFromInfo(info *C.SFrameBSInfo) []nativePacket {
	ft := int(info.eFrameType)
	if ft == videoFrameTypeSkip {
		return nil
	}
	var buf []byte
	for l := 0; l < int(C.h264kit_layer_count(info)); l++ {
		size := C.h264kit_layer_size(info, C.int(l))
		if size <= 0 {
			continue
		}
		data := C.h264kit_layer_data(info, C.int(l))
		buf = append(buf, C.GoBytes(unsafe.Pointer(data), size)...)
	}
	if len(buf) == 0 {
		return nil
	}
	return []nativePacket{{data: buf, frameType: ft}}
}
