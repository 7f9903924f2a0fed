package viz

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Fullscreen quad vertex shader: pass through clip-space positions.
const quadVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos;

out vec2 vPos;

void main() {
    vPos = aPos;
    gl_Position = vec4(aPos, 0.0, 1.0);
}
` + "\x00"

// Raymarch fragment shader. This is the GPU twin of field.go/raymarch.go:
// same field formula, same march parameters, same shading terms. Keep the
// two in sync when tuning.
const raymarchFragSrc = `#version 410 core

const int   MAX_BLOBS   = 16;
const int   MAX_STEPS   = 80;
const float EPSILON     = 0.005;
const float MAX_DIST    = 20.0;
const float UNDER_STEP  = 0.8;
const float NORMAL_EPS  = 0.01;
const float SPIKE_GAIN  = 0.35;
const float FREQ_LOW    = 3.0;
const float FREQ_HIGH   = 7.0;
const float OCTAVE_LOW  = 0.65;
const float SHARPNESS   = 3.0;
const float TIME_SCALE  = 0.8;
const float GLOW_FALL   = 3.0;
const float BASE_ALPHA  = 0.82;
const float CAM_DIST    = 6.0;
const float FOV_SCALE   = 0.9;

uniform vec2  uResolution;
uniform float uTime;
uniform float uTreble;
uniform float uVolume;
uniform float uSpikeDrive;
uniform float uBlendK;
uniform float uGlowStrength;
uniform vec3  uColCore;
uniform vec3  uColMid;
uniform vec3  uColTip;
uniform vec3  uColGlow;
uniform vec4  uBlobs[MAX_BLOBS]; // xyz = position, w = radius
uniform int   uNumBlobs;

in vec2 vPos;
out vec4 FragColor;

// Hash-gradient value noise; stands in for the CPU simplex source.
float hash(vec3 p) {
    p = fract(p * 0.3183099 + vec3(0.1, 0.2, 0.3));
    p *= 17.0;
    return fract(p.x * p.y * p.z * (p.x + p.y + p.z));
}

float vnoise(vec3 p) {
    vec3 i = floor(p);
    vec3 f = fract(p);
    f = f * f * (3.0 - 2.0 * f);
    float n000 = hash(i);
    float n100 = hash(i + vec3(1, 0, 0));
    float n010 = hash(i + vec3(0, 1, 0));
    float n110 = hash(i + vec3(1, 1, 0));
    float n001 = hash(i + vec3(0, 0, 1));
    float n101 = hash(i + vec3(1, 0, 1));
    float n011 = hash(i + vec3(0, 1, 1));
    float n111 = hash(i + vec3(1, 1, 1));
    return mix(mix(mix(n000, n100, f.x), mix(n010, n110, f.x), f.y),
               mix(mix(n001, n101, f.x), mix(n011, n111, f.x), f.y), f.z);
}

float spikeSample(vec3 dir, float t) {
    float tt = t * TIME_SCALE;
    float low  = vnoise(dir * FREQ_LOW + vec3(tt, tt * 0.9, 0.0));
    float high = vnoise(dir * FREQ_HIGH + vec3(-tt * 1.7, tt * 1.3, tt));
    float n = clamp(OCTAVE_LOW * low + (1.0 - OCTAVE_LOW) * high, 0.0, 1.0);
    return pow(n, SHARPNESS);
}

float smin(float a, float b, float k) {
    float h = clamp(0.5 + 0.5 * (b - a) / k, 0.0, 1.0);
    return mix(b, a, h) - k * h * (1.0 - h);
}

float blobDistance(vec3 p, vec4 blob) {
    if (blob.w <= 0.0) return MAX_DIST;
    vec3 rel = p - blob.xyz;
    float dist = length(rel);
    float d = dist - blob.w;
    if (uSpikeDrive > 0.0 && dist > 1e-5) {
        d -= spikeSample(rel / dist, uTime) * uSpikeDrive * blob.w * SPIKE_GAIN;
    }
    return d;
}

float sceneDistance(vec3 p) {
    float d = MAX_DIST;
    for (int i = 0; i < MAX_BLOBS; i++) {
        if (i >= uNumBlobs) break;
        float bd = blobDistance(p, uBlobs[i]);
        d = (i == 0) ? bd : smin(d, bd, uBlendK);
    }
    return d;
}

vec3 estimateNormal(vec3 p) {
    vec2 e = vec2(NORMAL_EPS, 0.0);
    vec3 n = vec3(
        sceneDistance(p + e.xyy) - sceneDistance(p - e.xyy),
        sceneDistance(p + e.yxy) - sceneDistance(p - e.yxy),
        sceneDistance(p + e.yyx) - sceneDistance(p - e.yyx));
    float len = length(n);
    if (len < 1e-8) {
        return vec3(0.0, 0.0, 1.0);
    }
    return n / len;
}

void main() {
    float aspect = uResolution.x / uResolution.y;
    vec3 origin = vec3(0.0, 0.0, CAM_DIST);
    vec3 dir = normalize(vec3(vPos.x * FOV_SCALE * aspect, vPos.y * FOV_SCALE, -1.0));

    float t = 0.0;
    float minDist = MAX_DIST;
    bool hit = false;
    for (int i = 0; i < MAX_STEPS; i++) {
        vec3 p = origin + dir * t;
        float d = sceneDistance(p);
        minDist = min(minDist, d);
        if (d < EPSILON) { hit = true; break; }
        t += d * UNDER_STEP;
        if (t > MAX_DIST) break;
    }

    if (!hit) {
        float glow = exp(-minDist * GLOW_FALL) * uGlowStrength * (0.35 + 0.65 * uVolume);
        glow = clamp(glow, 0.0, 1.0);
        FragColor = vec4(uColGlow * glow, glow * 0.85);
        return;
    }

    vec3 p = origin + dir * t;
    vec3 n = estimateNormal(p);
    vec3 view = -dir;

    // Spike proxy: distance outside the nearest base sphere, relative to
    // the maximum spike reach.
    float spikeT = 0.0;
    float nearest = MAX_DIST;
    for (int i = 0; i < MAX_BLOBS; i++) {
        if (i >= uNumBlobs) break;
        vec4 blob = uBlobs[i];
        if (blob.w <= 0.0) continue;
        float d = length(p - blob.xyz) - blob.w;
        if (d < nearest) {
            nearest = d;
            spikeT = clamp(d / (blob.w * SPIKE_GAIN), 0.0, 1.0);
        }
    }
    vec3 ramp = spikeT < 0.5
        ? mix(uColCore, uColMid, spikeT * 2.0)
        : mix(uColMid, uColTip, (spikeT - 0.5) * 2.0);

    vec3 lightA = normalize(vec3(0.6, 0.7, 0.5));
    vec3 lightB = normalize(vec3(-0.5, -0.3, 0.6));
    float diff = 0.9 * max(dot(n, lightA), 0.0) + 0.45 * max(dot(n, lightB), 0.0);

    float fresnel = pow(1.0 - clamp(dot(n, view), 0.0, 1.0), 3.0);

    vec3 halfDir = normalize(lightA + view);
    float spec = pow(max(dot(n, halfDir), 0.0), 32.0) * (0.4 + 0.8 * uTreble);

    vec3 col = ramp * (0.15 + diff) + uColGlow * fresnel * 0.6 + vec3(spec);
    float alpha = clamp(BASE_ALPHA + fresnel * 0.3 + uVolume * 0.15, 0.0, 1.0);
    FragColor = vec4(col, alpha);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
