package renderer

// Projection matrices produce depth in [0, 1]. GL clips depth to [-1, 1],
// so every vertex stage remaps z before writing gl_Position.

var litVertexSource = `#version 410 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec3 inTangent;
layout(location = 3) in vec2 inUV;

uniform mat4 world;
uniform mat4 worldInverseTranspose;
uniform mat4 view;
uniform mat4 projection;
uniform mat4 lightView;
uniform mat4 lightProjection;

out vec3 worldPosition;
out vec3 normal;
out vec3 tangent;
out vec2 uv;
out vec4 shadowPosition;

void main() {
    vec4 wp = world * vec4(inPosition, 1.0);
    worldPosition = wp.xyz;
    normal = normalize(mat3(worldInverseTranspose) * inNormal);
    tangent = normalize(mat3(world) * inTangent);
    uv = inUV;
    shadowPosition = lightProjection * lightView * wp;

    gl_Position = projection * view * wp;
    gl_Position.z = gl_Position.z * 2.0 - gl_Position.w;
}
`

var litFragmentSource = `#version 410 core

const int MAX_LIGHTS = 16;
const int LIGHT_DIRECTIONAL = 0;
const int LIGHT_POINT = 1;
const int LIGHT_SPOT = 2;

// Four vec4 per light, matching the packed 64-byte layout:
// a = type, direction   b = range, position
// c = intensity, color  d = inner, outer, active
struct PackedLight {
    vec4 a;
    vec4 b;
    vec4 c;
    vec4 d;
};

layout(std140) uniform Lights {
    PackedLight lights[MAX_LIGHTS];
};

in vec3 worldPosition;
in vec3 normal;
in vec3 tangent;
in vec2 uv;
in vec4 shadowPosition;

uniform sampler2D Albedo;
uniform sampler2D ShadowMap;
uniform samplerCube EnvironmentMap;

uniform vec4 colorTint;
uniform float roughness;
uniform float metalness;
uniform int hasMetalness;
uniform vec3 cameraPosition;
uniform vec2 uvPosition;
uniform vec2 uvScale;
uniform int lightCount;
uniform int shadowsEnabled;
uniform int useEnvironmentMap;

out vec4 fragColor;

float attenuate(float dist, float range) {
    float att = clamp(1.0 - (dist * dist) / (range * range), 0.0, 1.0);
    return att * att;
}

float shadowAmount() {
    vec3 ndc = shadowPosition.xyz / shadowPosition.w;
    vec2 coord = vec2(ndc.x * 0.5 + 0.5, ndc.y * 0.5 + 0.5);
    if (coord.x < 0.0 || coord.x > 1.0 || coord.y < 0.0 || coord.y > 1.0 || ndc.z > 1.0) {
        return 1.0;
    }
    vec2 texel = 1.0 / vec2(textureSize(ShadowMap, 0));
    float lit = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            float depth = texture(ShadowMap, coord + vec2(x, y) * texel).r;
            lit += ndc.z - 0.0015 <= depth ? 1.0 : 0.0;
        }
    }
    return lit / 9.0;
}

void main() {
    vec3 albedo = texture(Albedo, uv * uvScale + uvPosition).rgb * colorTint.rgb;
    vec3 n = normalize(normal);
    vec3 toCamera = normalize(cameraPosition - worldPosition);
    float metal = hasMetalness == 1 ? metalness : 0.0;
    float shininess = mix(256.0, 2.0, roughness);
    vec3 specColor = mix(vec3(0.04), albedo, metal);

    vec3 total = albedo * 0.05;
    for (int i = 0; i < lightCount && i < MAX_LIGHTS; i++) {
        PackedLight l = lights[i];
        if (floatBitsToInt(l.d.z) == 0) {
            continue;
        }
        int type = floatBitsToInt(l.a.x);
        vec3 dir = normalize(l.a.yzw);
        vec3 toLight;
        float att = 1.0;
        if (type == LIGHT_DIRECTIONAL) {
            toLight = -dir;
        } else {
            vec3 d = l.b.yzw - worldPosition;
            toLight = normalize(d);
            att = attenuate(length(d), l.b.x);
            if (type == LIGHT_SPOT) {
                float cosAngle = dot(-toLight, dir);
                att *= smoothstep(cos(l.d.y), cos(l.d.x), cosAngle);
            }
        }

        float diffuse = max(dot(n, toLight), 0.0);
        vec3 h = normalize(toLight + toCamera);
        float spec = diffuse > 0.0 ? pow(max(dot(n, h), 0.0), shininess) * (1.0 - roughness) : 0.0;
        vec3 contribution = (albedo * (1.0 - metal) * diffuse + specColor * spec) * l.c.yzw * l.c.x * att;

        if (i == 0 && shadowsEnabled == 1) {
            contribution *= shadowAmount();
        }
        total += contribution;
    }

    if (useEnvironmentMap == 1) {
        vec3 reflected = reflect(-toCamera, n);
        vec3 env = texture(EnvironmentMap, reflected).rgb;
        float fresnel = pow(1.0 - max(dot(n, toCamera), 0.0), 5.0);
        total = mix(total, env * specColor, clamp(fresnel + metal * (1.0 - roughness), 0.0, 1.0));
    }

    fragColor = vec4(total, colorTint.a);
}
`

var depthVertexSource = `#version 410 core

layout(location = 0) in vec3 inPosition;

uniform mat4 world;
uniform mat4 view;
uniform mat4 projection;

void main() {
    gl_Position = projection * view * world * vec4(inPosition, 1.0);
    gl_Position.z = gl_Position.z * 2.0 - gl_Position.w;
}
`

var depthFragmentSource = `#version 410 core

void main() {
}
`

var skyboxVertexSource = `#version 410 core

layout(location = 0) in vec3 inPosition;

uniform mat4 view;
uniform mat4 projection;

out vec3 direction;

void main() {
    direction = inPosition;
    // Rotation only, so the sky stays centred on the camera.
    vec4 clip = projection * vec4(mat3(view) * inPosition, 1.0);
    gl_Position = clip.xyww;
}
`

var skyboxFragmentSource = `#version 410 core

in vec3 direction;

uniform samplerCube MapCube;

out vec4 fragColor;

void main() {
    fragColor = texture(MapCube, direction);
}
`
